package score

type level struct {
	name  string
	minXP int
}

var levels = []level{
	{"Principiante", 0},
	{"Aprendiz", 100},
	{"Planificador", 300},
	{"Ahorrador", 600},
	{"Estratega", 1000},
	{"Experto", 1500},
	{"Maestro", 2200},
	{"Gurú Financiero", 3000},
}

// LevelFor returns the 1-indexed level reached with xp, its name and the xp
// still missing for the next one. At the top level xpToNext is 0.
func LevelFor(xp int) (lvl int, name string, xpToNext int) {
	idx := 0
	for i := len(levels) - 1; i >= 0; i-- {
		if xp >= levels[i].minXP {
			idx = i
			break
		}
	}
	if idx == len(levels)-1 {
		return idx + 1, levels[idx].name, 0
	}
	return idx + 1, levels[idx].name, levels[idx+1].minXP - xp
}
