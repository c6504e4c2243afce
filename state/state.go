// Package state holds the in-memory application state of one session and
// publishes a snapshot of it to subscribers after every change.
package state

import (
	"time"

	"jyu-rooms/api"
	"jyu-rooms/i18n"
	"jyu-rooms/rooms"
)

const (
	DefaultDuration = 60
	SlotMinutes     = 30
)

type Selection struct {
	Campus     string `json:"campus"`
	BuildingID string `json:"building_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   int    `json:"duration"`
	Search     string `json:"search"`
}

// Snapshot is an immutable copy of the state handed to listeners.
type Snapshot struct {
	Language  i18n.Lang        `json:"language"`
	Selection Selection        `json:"selection"`
	Buildings []rooms.Building `json:"buildings"`
	Visible   []rooms.Space    `json:"visible"`
	Epoch     uint64           `json:"epoch"`
	Ready     bool             `json:"ready"`
	Loading   bool             `json:"loading"`
	Notice    string           `json:"notice,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type State struct {
	dispatcher Dispatcher

	raw       api.Raw
	processed rooms.Result
	visible   []rooms.Space
	sel       Selection
	lang      i18n.Lang
	epoch     uint64
	ready     bool
	loading   bool
	notice    string
	errMsg    string
}

func New(d Dispatcher, lang i18n.Lang, now time.Time) *State {
	date, clock := DefaultSlot(now)
	return &State{
		dispatcher: d,
		lang:       lang,
		sel: Selection{
			Date:     date,
			Time:     clock,
			Duration: DefaultDuration,
		},
	}
}

// DefaultSlot rounds now up to the next 30-minute mark.
func DefaultSlot(now time.Time) (string, string) {
	minutes := now.Hour()*60 + now.Minute()
	rounded := (minutes + SlotMinutes - 1) / SlotMinutes * SlotMinutes
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	slot := midnight.Add(time.Duration(rounded) * time.Minute)
	return slot.Format("2006-01-02"), slot.Format("15:04")
}

func (s *State) Subscribe(l Listener) func() {
	return s.dispatcher.Subscribe(l)
}

func (s *State) Publish() {
	s.dispatcher.Publish(s.Snapshot())
}

func (s *State) Snapshot() Snapshot {
	buildings := make([]rooms.Building, len(s.processed.Buildings))
	copy(buildings, s.processed.Buildings)
	visible := make([]rooms.Space, len(s.visible))
	copy(visible, s.visible)
	return Snapshot{
		Language:  s.lang,
		Selection: s.sel,
		Buildings: buildings,
		Visible:   visible,
		Epoch:     s.epoch,
		Ready:     s.ready,
		Loading:   s.loading,
		Notice:    s.notice,
		Error:     s.errMsg,
	}
}

// Load replaces the raw records and clears the visible set.
func (s *State) Load(raw api.Raw) {
	s.raw = raw
	s.processed = rooms.Process(raw, s.lang)
	s.ready = true
	s.SetVisible(nil)
}

func (s *State) Ready() bool                 { return s.ready }
func (s *State) Language() i18n.Lang         { return s.lang }
func (s *State) Selection() Selection        { return s.sel }
func (s *State) Epoch() uint64               { return s.epoch }
func (s *State) Buildings() []rooms.Building { return s.processed.Buildings }
func (s *State) Spaces() []rooms.Space       { return s.processed.Spaces }

func (s *State) Visible() []rooms.Space {
	visible := make([]rooms.Space, len(s.visible))
	copy(visible, s.visible)
	return visible
}

// SetVisible replaces the visible spaces, resetting their availability and
// starting a new epoch.
func (s *State) SetVisible(spaces []rooms.Space) {
	visible := make([]rooms.Space, len(spaces))
	for i, sp := range spaces {
		sp.Availability = rooms.Unknown
		visible[i] = sp
	}
	s.visible = visible
	s.epoch++
}

// ApplyAvailability records results for the visible spaces. Results tagged
// with an older epoch are dropped and false is returned.
func (s *State) ApplyAvailability(epoch uint64, results map[string]rooms.Availability) bool {
	if epoch != s.epoch {
		return false
	}
	for i := range s.visible {
		if a, ok := results[s.visible[i].Label]; ok {
			s.visible[i].Availability = a
		}
	}
	return true
}

// SetLanguage relocalizes from the retained raw records. The visible set
// keeps the same labels and availability, so the epoch is unchanged.
func (s *State) SetLanguage(lang i18n.Lang) {
	if lang == s.lang {
		return
	}
	s.lang = lang
	if !s.ready {
		return
	}
	s.processed = rooms.Process(s.raw, lang)

	prior := make(map[string]rooms.Availability, len(s.visible))
	for _, sp := range s.visible {
		prior[sp.Label] = sp.Availability
	}
	visible := make([]rooms.Space, 0, len(s.visible))
	for _, sp := range s.processed.Spaces {
		if a, ok := prior[sp.Label]; ok {
			sp.Availability = a
			visible = append(visible, sp)
		}
	}
	s.visible = visible
}

func (s *State) SetCampus(campus string) { s.sel.Campus = campus }
func (s *State) SetBuilding(id string)   { s.sel.BuildingID = id }
func (s *State) SetDate(date string)     { s.sel.Date = date }
func (s *State) SetTime(clock string)    { s.sel.Time = clock }
func (s *State) SetDuration(minutes int) { s.sel.Duration = minutes }
func (s *State) SetSearch(term string)   { s.sel.Search = term }
func (s *State) SetLoading(loading bool) { s.loading = loading }
func (s *State) SetNotice(notice string) { s.notice = notice }
func (s *State) SetError(message string) { s.errMsg = message }
func (s *State) Notice() string          { return s.notice }
