package storage

import "github.com/mmynk/barnight/internal/models"

// Assembler joins flat child rows onto their parent nights. Backends load
// nights and each child table with one query apiece and feed the rows here
// instead of querying per night. Rows whose parent is unknown are ignored.
type Assembler struct {
	nights []models.BarNight
	byID   map[string]int
	items  map[string]itemRef
}

type itemRef struct {
	night int
	item  int
}

// NewAssembler takes ownership of nights; their child slices are reset.
func NewAssembler(nights []models.BarNight) *Assembler {
	a := &Assembler{
		nights: nights,
		byID:   make(map[string]int, len(nights)),
		items:  make(map[string]itemRef),
	}
	for i := range a.nights {
		a.nights[i].Participants = []models.Participant{}
		a.nights[i].Payments = []models.Payment{}
		a.nights[i].Items = []models.IndividualItem{}
		a.byID[a.nights[i].ID] = i
	}
	return a
}

// AddParticipant attaches a participant row to its night.
func (a *Assembler) AddParticipant(nightID string, p models.Participant) {
	if i, ok := a.byID[nightID]; ok {
		a.nights[i].Participants = append(a.nights[i].Participants, p)
	}
}

// AddPayment attaches a payment row to its night.
func (a *Assembler) AddPayment(nightID string, p models.Payment) {
	if i, ok := a.byID[nightID]; ok {
		a.nights[i].Payments = append(a.nights[i].Payments, p)
	}
}

// AddItem attaches an item row to its night. Items must be added before
// their participants.
func (a *Assembler) AddItem(nightID string, item models.IndividualItem) {
	i, ok := a.byID[nightID]
	if !ok {
		return
	}
	item.Participants = []models.Participant{}
	a.nights[i].Items = append(a.nights[i].Items, item)
	a.items[item.ID] = itemRef{night: i, item: len(a.nights[i].Items) - 1}
}

// AddItemParticipant attaches an item participant row to its item.
func (a *Assembler) AddItemParticipant(itemID string, p models.Participant) {
	ref, ok := a.items[itemID]
	if !ok {
		return
	}
	item := &a.nights[ref.night].Items[ref.item]
	item.Participants = append(item.Participants, p)
}

// Nights returns the assembled nights in the order they were given.
func (a *Assembler) Nights() []models.BarNight {
	return a.nights
}
