package feeds

import "strings"

// Column synonym groups. Feeds are published from spreadsheets maintained
// by different people, so headers arrive in at least two labeling
// conventions (and two languages). Matching is case-, whitespace- and
// underscore-insensitive.
var (
	colName     = []string{"name", "player", "joueur", "nom"}
	colPosition = []string{"position", "pos"}
	colTeam     = []string{"team", "equipe", "équipe"}
	colBox      = []string{"box", "boite", "boîte"}
	colPooler   = []string{"pooler", "owner", "manager", "participant"}
	colDate     = []string{"date", "jour"}
	colGoals    = []string{"goals", "goal", "buts", "but", "b"}
	colAssists  = []string{"assists", "assist", "passes", "passe", "a"}
	colWin      = []string{"goaliewin", "win", "wins", "victoire", "victoires", "v"}
	colOTL      = []string{"goalieotl", "otl", "defaiteprolongation", "dp"}
	colSO       = []string{"shutout", "shutouts", "so", "blanchissage", "jeublanc"}
	colPlayed   = []string{"played", "games", "gamesplayed", "gp", "mj", "matchsjoues"}
)

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}

// columns maps normalized header names to their first index.
type columns map[string]int

func resolveColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}
	return cols
}

// find returns the index of the first matching synonym, or -1.
func (c columns) find(synonyms []string) int {
	for _, name := range synonyms {
		if idx, ok := c[normalizeHeader(name)]; ok {
			return idx
		}
	}
	return -1
}

// field reads a cell, tolerating short rows.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
