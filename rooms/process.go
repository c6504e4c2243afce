// Package rooms turns raw facilities records into the localized, bookable
// view of buildings and spaces.
package rooms

import (
	"sort"
	"strconv"
	"strings"

	"jyu-rooms/api"
	"jyu-rooms/i18n"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	bookableCategories = map[string]struct{}{"31": {}, "214": {}, "33": {}}
	bookableExtensions = map[int]struct{}{4200042: {}, 4100003: {}}
)

func IsBookable(space api.Space) bool {
	if space.Capacity <= 0 || space.RentableArea <= 0 {
		return false
	}
	if space.SpaceCategory != nil {
		if _, ok := bookableCategories[space.SpaceCategory.CustNumber]; ok {
			return true
		}
	}
	if space.SpaceCategoryExtension != nil {
		if _, ok := bookableExtensions[space.SpaceCategoryExtension.ID]; ok {
			return true
		}
	}
	return false
}

// Process keeps bookable spaces and the buildings that contain them, with
// names localized for lang. raw is not modified, so calling Process again
// with another language never needs a refetch.
func Process(raw api.Raw, lang i18n.Lang) Result {
	floorBuilding := make(map[string]string, len(raw.Floors))
	for _, floor := range raw.Floors {
		floorBuilding[floor.ID] = floor.BuildingID
	}

	translations := raw.Config.SpaceCategoryTranslations
	spaces := make([]Space, 0, len(raw.Spaces))
	reachable := map[string]struct{}{}
	for _, s := range raw.Spaces {
		if !IsBookable(s) {
			continue
		}
		buildingID := floorBuilding[s.FloorID]
		if buildingID != "" {
			reachable[buildingID] = struct{}{}
		}
		spaces = append(spaces, Space{
			Label:      s.SpaceLabel,
			Name:       s.Name,
			Capacity:   s.Capacity,
			Area:       s.RentableArea,
			Category:   categoryText(s, translations, lang),
			FloorID:    s.FloorID,
			BuildingID: buildingID,
			Raw:        s,
		})
	}

	locations := make(map[string]api.Location, len(raw.Config.Locations))
	for _, loc := range raw.Config.Locations {
		locations[loc.BuildingID] = loc
	}

	buildings := make([]Building, 0, len(reachable))
	for _, b := range raw.Buildings {
		if _, ok := reachable[b.ID]; !ok {
			continue
		}
		buildings = append(buildings, localizeBuilding(b, locations, lang))
	}

	coll := collate.New(collationTag(lang), collate.IgnoreCase)
	sort.SliceStable(buildings, func(i, j int) bool {
		return coll.CompareString(buildings[i].Name, buildings[j].Name) < 0
	})

	return Result{Buildings: buildings, Spaces: spaces}
}

func collationTag(lang i18n.Lang) language.Tag {
	if lang == i18n.Finnish {
		return language.Finnish
	}
	return language.English
}

func localizeBuilding(b api.Building, locations map[string]api.Location, lang i18n.Lang) Building {
	out := Building{
		ID:        b.ID,
		Name:      b.Name,
		Campus:    b.Campus,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Address:   b.Address,
		Raw:       b,
	}
	loc, ok := locations[b.ID]
	if !ok {
		return out
	}
	if name := pick(loc.NameFi, loc.NameEn, lang); name != "" {
		out.Name = name
	}
	if loc.Latitude != 0 || loc.Longitude != 0 {
		out.Latitude = loc.Latitude
		out.Longitude = loc.Longitude
	}
	out.Glyph = loc.ShortCode
	return out
}

func categoryText(s api.Space, translations map[string]api.Translation, lang i18n.Lang) string {
	var category, extension string
	if s.SpaceCategory != nil {
		category = translate(categoryKey(s.SpaceCategory, translations), s.SpaceCategory.Name, translations, lang)
	}
	if s.SpaceCategoryExtension != nil {
		extension = translate(strconv.Itoa(s.SpaceCategoryExtension.ID), s.SpaceCategoryExtension.Name, translations, lang)
	}
	switch {
	case category != "" && extension != "":
		return category + " / " + extension
	case category != "":
		return category
	}
	return extension
}

// categoryKey prefers the category id and falls back to its code.
func categoryKey(c *api.SpaceCategory, translations map[string]api.Translation) string {
	if _, ok := translations[c.ID]; ok && c.ID != "" {
		return c.ID
	}
	return c.CustNumber
}

func translate(key, fallback string, translations map[string]api.Translation, lang i18n.Lang) string {
	entry, ok := translations[key]
	if !ok {
		return fallback
	}
	if name := pick(entry.Fi, entry.En, lang); name != "" {
		return name
	}
	return fallback
}

func pick(fi, en string, lang i18n.Lang) string {
	if lang == i18n.Finnish {
		return fi
	}
	return en
}

// Campuses lists campus names in building order, without duplicates.
func Campuses(buildings []Building) []string {
	seen := map[string]struct{}{}
	campuses := []string{}
	for _, b := range buildings {
		if b.Campus == "" {
			continue
		}
		if _, ok := seen[b.Campus]; ok {
			continue
		}
		seen[b.Campus] = struct{}{}
		campuses = append(campuses, b.Campus)
	}
	return campuses
}

func BuildingsInCampus(buildings []Building, campus string) []Building {
	if campus == "" {
		return buildings
	}
	filtered := make([]Building, 0, len(buildings))
	for _, b := range buildings {
		if b.Campus == campus {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func FindBuilding(buildings []Building, id string) (Building, bool) {
	for _, b := range buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

func SpacesInBuilding(spaces []Space, buildingID string) []Space {
	filtered := []Space{}
	for _, s := range spaces {
		if s.BuildingID == buildingID {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func SpacesInCampus(spaces []Space, buildings []Building, campus string) []Space {
	ids := map[string]struct{}{}
	for _, b := range BuildingsInCampus(buildings, campus) {
		ids[b.ID] = struct{}{}
	}
	filtered := []Space{}
	for _, s := range spaces {
		if _, ok := ids[s.BuildingID]; ok {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Match reports whether term occurs in the space's name, label or category.
func Match(space Space, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(space.Name), term) ||
		strings.Contains(strings.ToLower(space.Label), term) ||
		strings.Contains(strings.ToLower(space.Category), term)
}
