package rooms

import (
	"reflect"
	"testing"

	"jyu-rooms/api"
	"jyu-rooms/i18n"
)

func sampleRaw() api.Raw {
	return api.Raw{
		Buildings: []api.Building{
			{ID: "b-ag", Name: "Agora", Campus: "Mattilanniemi", Latitude: 62.2323, Longitude: 25.7370},
			{ID: "b-ru", Name: "Ruusupuisto", Campus: "Seminaarinmäki", Latitude: 62.2360, Longitude: 25.7330},
			{ID: "b-empty", Name: "Varasto", Campus: "Ylistönrinne"},
			{ID: "b-oh", Name: "öhman", Campus: "Seminaarinmäki"},
		},
		Floors: []api.Floor{
			{ID: "f-ag1", BuildingID: "b-ag"},
			{ID: "f-ru1", BuildingID: "b-ru"},
			{ID: "f-empty", BuildingID: "b-empty"},
			{ID: "f-oh", BuildingID: "b-oh"},
		},
		Spaces: []api.Space{
			{SpaceLabel: "Ag C231", Capacity: 24, RentableArea: 60, FloorID: "f-ag1", SpaceCategory: &api.SpaceCategory{CustNumber: "31", Name: "Opetustila"}},
			{SpaceLabel: "RUU D101", Name: "Helena", Capacity: 120, RentableArea: 200, FloorID: "f-ru1", SpaceCategory: &api.SpaceCategory{CustNumber: "99", Name: "Luentosali"}, SpaceCategoryExtension: &api.CategoryExtension{ID: 4200042, Name: "Auditorio"}},
			{SpaceLabel: "Storage", Capacity: 0, RentableArea: 10, FloorID: "f-empty", SpaceCategory: &api.SpaceCategory{CustNumber: "31"}},
			{SpaceLabel: "Office", Capacity: 2, RentableArea: 12, FloorID: "f-empty", SpaceCategory: &api.SpaceCategory{CustNumber: "11", Name: "Toimisto"}},
			{SpaceLabel: "OH 1", Capacity: 8, RentableArea: 20, FloorID: "f-oh", SpaceCategory: &api.SpaceCategory{CustNumber: "214", Name: "Ryhmätyötila"}},
		},
		Config: api.Config{
			Locations: []api.Location{
				{BuildingID: "b-ag", ShortCode: "Ag", NameFi: "Agora", NameEn: "Agora building", Latitude: 62.2324, Longitude: 25.7371},
				{BuildingID: "b-ru", ShortCode: "RUU", NameFi: "Ruusupuisto", NameEn: ""},
			},
			SpaceCategoryTranslations: map[string]api.Translation{
				"31":      {Fi: "Opetustila", En: "Teaching space"},
				"4200042": {Fi: "Auditorio", En: "Auditorium"},
			},
		},
	}
}

func TestIsBookable(t *testing.T) {
	cases := []struct {
		name  string
		space api.Space
		want  bool
	}{
		{"allowed category", api.Space{Capacity: 1, RentableArea: 1, SpaceCategory: &api.SpaceCategory{CustNumber: "33"}}, true},
		{"allowed extension", api.Space{Capacity: 1, RentableArea: 1, SpaceCategoryExtension: &api.CategoryExtension{ID: 4100003}}, true},
		{"zero capacity", api.Space{Capacity: 0, RentableArea: 1, SpaceCategory: &api.SpaceCategory{CustNumber: "31"}}, false},
		{"zero area", api.Space{Capacity: 5, RentableArea: 0, SpaceCategory: &api.SpaceCategory{CustNumber: "31"}}, false},
		{"other category", api.Space{Capacity: 5, RentableArea: 5, SpaceCategory: &api.SpaceCategory{CustNumber: "11"}}, false},
		{"no category", api.Space{Capacity: 5, RentableArea: 5}, false},
	}
	for _, tc := range cases {
		if got := IsBookable(tc.space); got != tc.want {
			t.Errorf("%s: IsBookable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestProcessFiltersAndLocalizes(t *testing.T) {
	res := Process(sampleRaw(), i18n.English)

	if len(res.Spaces) != 3 {
		t.Fatalf("expected 3 bookable spaces, got %d", len(res.Spaces))
	}
	labels := []string{}
	for _, s := range res.Spaces {
		labels = append(labels, s.Label)
	}
	if !reflect.DeepEqual(labels, []string{"Ag C231", "RUU D101", "OH 1"}) {
		t.Errorf("unexpected labels: %v", labels)
	}

	if res.Spaces[0].Category != "Teaching space" {
		t.Errorf("expected translated category, got %q", res.Spaces[0].Category)
	}
	if res.Spaces[1].Category != "Luentosali / Auditorium" {
		t.Errorf("expected untranslated category with translated extension, got %q", res.Spaces[1].Category)
	}
	if res.Spaces[2].Category != "Ryhmätyötila" {
		t.Errorf("expected raw category name, got %q", res.Spaces[2].Category)
	}
	if res.Spaces[1].BuildingID != "b-ru" {
		t.Errorf("expected building id from floor, got %q", res.Spaces[1].BuildingID)
	}

	names := []string{}
	for _, b := range res.Buildings {
		names = append(names, b.Name)
	}
	if !reflect.DeepEqual(names, []string{"Agora building", "öhman", "Ruusupuisto"}) {
		t.Errorf("unexpected building order: %v", names)
	}

	ag, ok := FindBuilding(res.Buildings, "b-ag")
	if !ok {
		t.Fatal("Agora missing")
	}
	if ag.Glyph != "Ag" || ag.Latitude != 62.2324 {
		t.Errorf("expected location overrides, got %+v", ag)
	}
	if _, ok := FindBuilding(res.Buildings, "b-empty"); ok {
		t.Error("building without bookable spaces should be dropped")
	}
}

func TestProcessFinnishOrdering(t *testing.T) {
	res := Process(sampleRaw(), i18n.Finnish)
	names := []string{}
	for _, b := range res.Buildings {
		names = append(names, b.Name)
	}
	// Finnish collation sorts ö after the Latin letters.
	if !reflect.DeepEqual(names, []string{"Agora", "Ruusupuisto", "öhman"}) {
		t.Errorf("unexpected Finnish order: %v", names)
	}
	if res.Spaces[0].Category != "Opetustila" {
		t.Errorf("expected Finnish category, got %q", res.Spaces[0].Category)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	raw := sampleRaw()
	first := Process(raw, i18n.English)
	second := Process(raw, i18n.English)
	if !reflect.DeepEqual(first, second) {
		t.Error("processing twice should yield identical output")
	}

	Process(raw, i18n.Finnish)
	back := Process(raw, i18n.English)
	if !reflect.DeepEqual(first, back) {
		t.Error("switching language and back should restore the English strings")
	}
}

func TestCampusHelpers(t *testing.T) {
	res := Process(sampleRaw(), i18n.English)

	if got := Campuses(res.Buildings); !reflect.DeepEqual(got, []string{"Mattilanniemi", "Seminaarinmäki"}) {
		t.Errorf("unexpected campuses: %v", got)
	}
	sem := SpacesInCampus(res.Spaces, res.Buildings, "Seminaarinmäki")
	if len(sem) != 2 {
		t.Errorf("expected 2 spaces in Seminaarinmäki, got %d", len(sem))
	}
	if got := SpacesInBuilding(res.Spaces, "b-ag"); len(got) != 1 || got[0].Label != "Ag C231" {
		t.Errorf("unexpected Agora spaces: %+v", got)
	}
	if got := BuildingsInCampus(res.Buildings, "Mattilanniemi"); len(got) != 1 {
		t.Errorf("expected 1 building in Mattilanniemi, got %d", len(got))
	}
}

func TestMatch(t *testing.T) {
	s := Space{Label: "RUU D101", Name: "Helena", Category: "Auditorium"}
	for _, term := range []string{"", "helena", "d101", "AUDIT"} {
		if !Match(s, term) {
			t.Errorf("expected %q to match", term)
		}
	}
	if Match(s, "agora") {
		t.Error("agora should not match")
	}
}

func TestCategoryTranslatedByID(t *testing.T) {
	raw := sampleRaw()
	raw.Spaces = []api.Space{
		{SpaceLabel: "Ag C231", Capacity: 24, RentableArea: 60, FloorID: "f-ag1", SpaceCategory: &api.SpaceCategory{ID: "1017", CustNumber: "31", Name: "Opetustila"}},
		{SpaceLabel: "Ag C232", Capacity: 24, RentableArea: 60, FloorID: "f-ag1", SpaceCategory: &api.SpaceCategory{ID: "9999", CustNumber: "31", Name: "Opetustila"}},
	}
	raw.Config.SpaceCategoryTranslations = map[string]api.Translation{
		"1017": {Fi: "Opetustila", En: "Teaching space"},
		"31":   {Fi: "Opetustila", En: "Classroom"},
	}

	res := Process(raw, i18n.English)
	got := map[string]string{}
	for _, sp := range res.Spaces {
		got[sp.Label] = sp.Category
	}
	if got["Ag C231"] != "Teaching space" {
		t.Errorf("translation keyed by category id should win, got %q", got["Ag C231"])
	}
	if got["Ag C232"] != "Classroom" {
		t.Errorf("unknown id should fall back to the category code, got %q", got["Ag C232"])
	}
}
