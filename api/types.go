package api

import "encoding/json"

type Building struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Campus    string  `json:"campus"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Floor struct {
	ID         string `json:"id"`
	BuildingID string `json:"buildingId"`
}

type Space struct {
	SpaceLabel             string             `json:"spaceLabel"`
	Name                   string             `json:"name,omitempty"`
	Capacity               int                `json:"capacity"`
	RentableArea           float64            `json:"rentableArea"`
	FloorID                string             `json:"floorId"`
	SpaceCategory          *SpaceCategory     `json:"spaceCategory,omitempty"`
	SpaceCategoryExtension *CategoryExtension `json:"spaceCategoryExtension,omitempty"`
}

type SpaceCategory struct {
	ID         string `json:"id,omitempty"`
	CustNumber string `json:"custNumber"`
	Name       string `json:"name"`
}

type CategoryExtension struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Location is the config entry that localizes a building on the map.
type Location struct {
	BuildingID string  `json:"buildingId"`
	ShortCode  string  `json:"shortCode"`
	NameFi     string  `json:"nameFi"`
	NameEn     string  `json:"nameEn"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type Translation struct {
	Fi string `json:"fi"`
	En string `json:"en"`
}

type Config struct {
	Items                     []json.RawMessage      `json:"items"`
	Locations                 []Location             `json:"locations"`
	SpaceCategoryTranslations map[string]Translation `json:"spaceCategoryTranslations"`
}

// Raw is the full set of records fetched at startup.
type Raw struct {
	Buildings []Building
	Floors    []Floor
	Spaces    []Space
	Config    Config
}

type AvailabilityRequest struct {
	Spaces   []Space `json:"spaces"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Duration int     `json:"duration"`
}

type AvailabilityResult struct {
	SpaceLabel  string `json:"spaceLabel"`
	IsAvailable *bool  `json:"isAvailable"`
}

type availabilityResponse struct {
	AvailabilityResults *[]AvailabilityResult `json:"availabilityResults"`
}
