// Package city loads the static cidades.json reference dataset and handles
// the "Name (UF)" display form used by the city selection dropdown.
package city

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Entry struct {
	Name string `json:"Nome"`
	UF   string `json:"Uf"`
}

// Display renders the entry the way the dropdown and the stored
// decomposition expect it, e.g. "São Paulo (SP)".
func (e Entry) Display() string {
	if e.UF == "" {
		return e.Name
	}
	return e.Name + " (" + e.UF + ")"
}

// Split undoes Display: the part before the last " (" is the city name, the
// rest minus the trailing ")" is the state code. A string without the
// delimiter is all name, no state.
func Split(s string) Entry {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, " (")
	if idx < 0 || !strings.HasSuffix(s, ")") {
		return Entry{Name: s}
	}
	return Entry{
		Name: strings.TrimSpace(s[:idx]),
		UF:   strings.TrimSpace(strings.TrimSuffix(s[idx+2:], ")")),
	}
}

type List struct {
	entries []Entry
}

type citiesFile struct {
	Data []Entry `json:"data"`
}

// Load reads the dataset at path once. A missing or unparsable file degrades
// to an empty list so the form still renders, just without options.
func Load(path string) *List {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("can't read cities dataset, city dropdown will be empty", "path", path, "error", err)
		return &List{}
	}

	var file citiesFile
	if err := json.Unmarshal(raw, &file); err != nil {
		slog.Warn("can't parse cities dataset, city dropdown will be empty", "path", path, "error", err)
		return &List{}
	}

	cl := collate.New(language.BrazilianPortuguese)
	sort.Slice(file.Data, func(i, j int) bool {
		return cl.CompareString(file.Data[i].Display(), file.Data[j].Display()) < 0
	})

	slog.Debug("cities dataset loaded", "path", path, "entries", len(file.Data))
	return &List{entries: file.Data}
}

// Displays returns the sorted "Name (UF)" strings for the dropdown.
func (l *List) Displays() []string {
	displays := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		displays = append(displays, entry.Display())
	}
	return displays
}

func (l *List) Len() int {
	return len(l.entries)
}
