package titles

import (
	"reflect"
	"strings"
	"testing"
)

func TestGenerateStripsEmbeddedYear(t *testing.T) {
	set := Generate("The Matrix (1999)")
	if set.Clean != "The Matrix" {
		t.Fatalf("Clean = %q", set.Clean)
	}
	if set.EmbeddedYear != 1999 {
		t.Fatalf("EmbeddedYear = %d", set.EmbeddedYear)
	}
	if len(set.Variants) == 0 || set.Variants[0] != "The Matrix" {
		t.Fatalf("first variant should be the clean title, got %v", set.Variants)
	}
	for _, v := range set.Variants {
		if strings.Contains(v, "1999") {
			t.Fatalf("variant %q leaks the embedded year", v)
		}
	}
	want := []string{"The Matrix", "Matrix", "matrix"}
	if !reflect.DeepEqual(set.Variants, want) {
		t.Fatalf("Variants = %#v, want %#v", set.Variants, want)
	}
}

func TestGenerateColonTitle(t *testing.T) {
	set := Generate("Mission: Impossible Dead Reckoning")
	want := []string{
		"Mission: Impossible Dead Reckoning",
		"Mission Impossible Dead Reckoning",
		"Mission",
		"The Mission: Impossible Dead Reckoning",
		"mission impossible",
		"mission",
	}
	if !reflect.DeepEqual(set.Variants, want) {
		t.Fatalf("Variants = %#v, want %#v", set.Variants, want)
	}
	if !reflect.DeepEqual(set.Important, []string{"mission", "impossible", "dead", "reckoning"}) {
		t.Fatalf("Important = %#v", set.Important)
	}
}

func TestGenerateKeepsTitleVerbatimFirst(t *testing.T) {
	set := Generate("Deadpool & Wolverine")
	if len(set.Variants) == 0 {
		t.Fatal("expected variants")
	}
	if set.Variants[0] != "Deadpool & Wolverine" {
		t.Fatalf("first variant = %q", set.Variants[0])
	}
	if !reflect.DeepEqual(set.Important, []string{"deadpool", "wolverine"}) {
		t.Fatalf("Important = %#v", set.Important)
	}
	last := set.Variants[len(set.Variants)-2:]
	if !reflect.DeepEqual(last, []string{"deadpool wolverine", "deadpool"}) {
		t.Fatalf("keyword variants = %#v", last)
	}
}

func TestGenerateMovieSuffix(t *testing.T) {
	set := Generate("The Super Mario Bros. Movie")
	found := false
	for _, v := range set.Variants {
		if v == "The Super Mario Bros." {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected movie suffix variant in %#v", set.Variants)
	}
	set = Generate("Minecraft The Movie")
	if set.Variants[len(set.Variants)-1] != "minecraft" {
		t.Fatalf("unexpected variants %#v", set.Variants)
	}
	for _, v := range set.Variants {
		if v == "Minecraft The" {
			t.Fatalf("partial suffix strip produced %q", v)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	set := Generate("   ")
	if len(set.Variants) != 0 {
		t.Fatalf("expected no variants, got %#v", set.Variants)
	}
}

func TestToggleThe(t *testing.T) {
	if got := ToggleThe("the Batman"); got != "Batman" {
		t.Fatalf("ToggleThe = %q", got)
	}
	if got := ToggleThe("Batman"); got != "The Batman" {
		t.Fatalf("ToggleThe = %q", got)
	}
}
