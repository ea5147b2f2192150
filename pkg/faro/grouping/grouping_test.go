package grouping

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/soportebi/faro/pkg/faro/keywords"
)

func counts(m map[string]int) func(string) int {
	return func(c string) int { return m[c] }
}

func TestGroupSimilarCauses(t *testing.T) {
	g := New(keywords.NewExtractor(keywords.DefaultStopwords()), 0.5)

	causes := []string{"Internet lento", "Internet lento hoy", "Facturación duplicada"}
	freq := counts(map[string]int{
		"Internet lento":        5,
		"Internet lento hoy":    3,
		"Facturación duplicada": 2,
	})

	groups := g.Group(causes, freq)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}

	// "Internet lento" vs "Internet lento hoy": jaccard 2/3 >= 0.5
	want := []string{"Internet lento", "Internet lento hoy"}
	if diff := cmp.Diff(want, groups[0].Members); diff != "" {
		t.Errorf("first group members mismatch (-want +got):\n%s", diff)
	}
	if groups[0].Name != "Internet Lento" {
		t.Errorf("first group name = %q, want %q", groups[0].Name, "Internet Lento")
	}

	if diff := cmp.Diff([]string{"Facturación duplicada"}, groups[1].Members); diff != "" {
		t.Errorf("second group members mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupFrequencyOrder(t *testing.T) {
	g := New(keywords.NewExtractor(nil), 0.5)

	// The most frequent cause must seed the group even when listed last.
	causes := []string{"señal intermitente", "señal intermitente zona"}
	freq := counts(map[string]int{
		"señal intermitente":      1,
		"señal intermitente zona": 9,
	})

	groups := g.Group(causes, freq)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Members[0] != "señal intermitente zona" {
		t.Errorf("seed = %q, want the most frequent cause", groups[0].Members[0])
	}
}

func TestGroupTieBreakIsFirstSeen(t *testing.T) {
	g := New(keywords.NewExtractor(nil), 0.9)

	causes := []string{"causa alfa", "causa beta", "causa gama"}
	freq := counts(map[string]int{"causa alfa": 2, "causa beta": 2, "causa gama": 2})

	groups := g.Group(causes, freq)
	var seeds []string
	for _, grp := range groups {
		seeds = append(seeds, grp.Members[0])
	}
	if diff := cmp.Diff(causes, seeds); diff != "" {
		t.Errorf("tie-break order mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAllStopwordsSingleton(t *testing.T) {
	g := New(keywords.NewExtractor(keywords.DefaultStopwords()), 0.1)

	// an all-stop-word cause has an empty keyword set and never matches
	causes := []string{"error de cliente", "falla de cliente", "Internet lento"}
	freq := counts(map[string]int{"error de cliente": 3, "falla de cliente": 2, "Internet lento": 1})

	groups := g.Group(causes, freq)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3 singletons: %+v", len(groups), groups)
	}
	for _, grp := range groups {
		if len(grp.Members) != 1 {
			t.Errorf("group %q has %d members, want 1", grp.Name, len(grp.Members))
		}
	}
}

func TestGroupNameFallbacks(t *testing.T) {
	g := New(keywords.NewExtractor(keywords.DefaultStopwords()), 0.75)

	groups := g.Group([]string{"reinicio"}, counts(map[string]int{"reinicio": 1}))
	if groups[0].Name != "Reinicio" {
		t.Errorf("single-keyword name = %q, want %q", groups[0].Name, "Reinicio")
	}

	long := "el de la en con por para del al y o que se no"
	groups = g.Group([]string{long}, counts(map[string]int{long: 1}))
	want := "el de la en con por ..."
	if groups[0].Name != want {
		t.Errorf("literal fallback name = %q, want %q", groups[0].Name, want)
	}
}

func TestGroupNameCollisionMerges(t *testing.T) {
	g := New(keywords.NewExtractor(keywords.DefaultStopwords()), 0.9)

	// Both causes share their two leading keywords but sit below the
	// threshold, so each seeds its own group with the same derived name.
	causes := []string{"internet lento zona", "internet lento cortes masivos"}
	freq := counts(map[string]int{"internet lento zona": 2, "internet lento cortes masivos": 1})

	groups := g.Group(causes, freq)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 merged group: %+v", len(groups), groups)
	}
	if len(groups[0].Members) != 2 {
		t.Errorf("merged group has %d members, want 2", len(groups[0].Members))
	}
}

func TestGroupEmptyInput(t *testing.T) {
	g := New(keywords.NewExtractor(nil), 0.5)
	if groups := g.Group(nil, counts(nil)); groups != nil {
		t.Errorf("expected nil for empty input, got %+v", groups)
	}
}

func TestGroupCoversEveryCause(t *testing.T) {
	g := New(keywords.NewExtractor(keywords.DefaultStopwords()), 0.75)

	causes := []string{
		"Internet lento", "Internet lento hoy", "Cobro duplicado",
		"Sin señal de TV", "error", "línea con ruido",
	}
	freq := counts(map[string]int{
		"Internet lento": 4, "Internet lento hoy": 3, "Cobro duplicado": 2,
		"Sin señal de TV": 2, "error": 1, "línea con ruido": 1,
	})

	groups := g.Group(causes, freq)
	seen := make(map[string]int)
	for _, grp := range groups {
		for _, m := range grp.Members {
			seen[m]++
		}
	}
	for _, c := range causes {
		if seen[c] != 1 {
			t.Errorf("cause %q appears %d times across groups, want exactly 1", c, seen[c])
		}
	}
}
