package wizard

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/models"
)

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu     sync.Mutex
	states map[string]models.WizardState
}

func newMemSessions() *memSessions {
	return &memSessions{states: make(map[string]models.WizardState)}
}

func (m *memSessions) Load(ctx context.Context, scope, key string) (*models.WizardState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[scope+":"+key]
	if !ok {
		return nil, nil
	}
	copied := state
	return &copied, nil
}

func (m *memSessions) Save(ctx context.Context, scope, key string, state *models.WizardState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[scope+":"+key] = *state
	return nil
}

func (m *memSessions) Clear(ctx context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, scope+":"+key)
	return nil
}

// memCatalog is an in-memory CatalogRepository.
type memCatalog struct {
	offices   []models.Office
	types     []models.FacilityType
	items     []models.FacilityItem
	templates []models.TimeSlotTemplate
}

func (m *memCatalog) ListOffices(ctx context.Context) ([]models.Office, error) {
	return m.offices, nil
}

func (m *memCatalog) GetOffice(ctx context.Context, id string) (*models.Office, error) {
	for i := range m.offices {
		if m.offices[i].ID == id {
			return &m.offices[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCatalog) CreateOffice(ctx context.Context, office *models.Office) error {
	m.offices = append(m.offices, *office)
	return nil
}

func (m *memCatalog) DeleteOffice(ctx context.Context, id string) error {
	for i := range m.offices {
		if m.offices[i].ID == id {
			m.offices = append(m.offices[:i], m.offices[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCatalog) ListFacilityTypes(ctx context.Context, officeID string) ([]models.FacilityType, error) {
	var out []models.FacilityType
	for _, t := range m.types {
		if t.OfficeID == officeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memCatalog) GetFacilityType(ctx context.Context, id string) (*models.FacilityType, error) {
	for i := range m.types {
		if m.types[i].ID == id {
			return &m.types[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCatalog) CreateFacilityType(ctx context.Context, ft *models.FacilityType) error {
	m.types = append(m.types, *ft)
	return nil
}

func (m *memCatalog) UpdateFacilityType(ctx context.Context, ft *models.FacilityType) error {
	for i := range m.types {
		if m.types[i].ID == ft.ID {
			m.types[i] = *ft
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memCatalog) DeleteFacilityType(ctx context.Context, id string) error {
	for i := range m.types {
		if m.types[i].ID == id {
			m.types = append(m.types[:i], m.types[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCatalog) ListFacilityItems(ctx context.Context, facilityTypeID string) ([]models.FacilityItem, error) {
	var out []models.FacilityItem
	for _, it := range m.items {
		if it.FacilityTypeID == facilityTypeID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memCatalog) GetFacilityItem(ctx context.Context, id string) (*models.FacilityItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCatalog) CreateFacilityItem(ctx context.Context, item *models.FacilityItem) error {
	m.items = append(m.items, *item)
	return nil
}

func (m *memCatalog) UpdateFacilityItem(ctx context.Context, item *models.FacilityItem) error {
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = *item
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memCatalog) DeleteFacilityItem(ctx context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCatalog) DeleteFacilityItemsByType(ctx context.Context, facilityTypeID string) ([]string, error) {
	var ids []string
	var kept []models.FacilityItem
	for _, it := range m.items {
		if it.FacilityTypeID == facilityTypeID {
			ids = append(ids, it.ID)
		} else {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return ids, nil
}

func (m *memCatalog) ListTimeSlotTemplates(ctx context.Context, facilityTypeID string) ([]models.TimeSlotTemplate, error) {
	var out []models.TimeSlotTemplate
	for _, tpl := range m.templates {
		if tpl.FacilityTypeID == facilityTypeID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (m *memCatalog) GetTimeSlotTemplate(ctx context.Context, id string) (*models.TimeSlotTemplate, error) {
	for i := range m.templates {
		if m.templates[i].ID == id {
			return &m.templates[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCatalog) FindTemplateByWindow(ctx context.Context, facilityTypeID string, start, end int) (*models.TimeSlotTemplate, error) {
	for i := range m.templates {
		tpl := &m.templates[i]
		if tpl.FacilityTypeID == facilityTypeID && tpl.Start == start && tpl.End == end {
			return tpl, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCatalog) ReplaceTimeSlotTemplates(ctx context.Context, facilityTypeID string, templates []models.TimeSlotTemplate) error {
	var kept []models.TimeSlotTemplate
	for _, tpl := range m.templates {
		if tpl.FacilityTypeID != facilityTypeID {
			kept = append(kept, tpl)
		}
	}
	m.templates = append(kept, templates...)
	return nil
}

func (m *memCatalog) DeleteTimeSlotTemplatesByType(ctx context.Context, facilityTypeID string) error {
	var kept []models.TimeSlotTemplate
	for _, tpl := range m.templates {
		if tpl.FacilityTypeID != facilityTypeID {
			kept = append(kept, tpl)
		}
	}
	m.templates = kept
	return nil
}

func (m *memCatalog) EnsureIndexes() error { return nil }

// memReservations is an in-memory ReservationRepository that enforces
// the unique slot constraint under a mutex, the way the unique index
// does in MongoDB.
type memReservations struct {
	mu     sync.Mutex
	nextID int
	data   map[string]models.Reservation
}

func newMemReservations() *memReservations {
	return &memReservations{data: make(map[string]models.Reservation)}
}

// dupSlotError trips reservationRepo.IsDuplicateSlot.
func dupSlotError() error {
	return mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}
}

func (m *memReservations) slotTakenLocked(res *models.Reservation) bool {
	for id, other := range m.data {
		if id == res.ID {
			continue
		}
		if other.FacilityItemID != "" && other.FacilityItemID == res.FacilityItemID &&
			other.Date == res.Date && other.Start == res.Start && other.End == res.End {
			return true
		}
	}
	return false
}

func (m *memReservations) Create(ctx context.Context, res *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if res.ID == "" {
		m.nextID++
		res.ID = fmt.Sprintf("res-%d", m.nextID)
	}
	if m.slotTakenLocked(res) {
		return dupSlotError()
	}
	m.data[res.ID] = *res
	return nil
}

func (m *memReservations) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.data[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &res, nil
}

func (m *memReservations) Update(ctx context.Context, res *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[res.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	if m.slotTakenLocked(res) {
		return dupSlotError()
	}
	m.data[res.ID] = *res
	return nil
}

func (m *memReservations) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *memReservations) CountBySlot(ctx context.Context, itemID, date string, start, end int, excludeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, res := range m.data {
		if id == excludeID {
			continue
		}
		if res.FacilityItemID == itemID && res.Date == date && res.Start == start && res.End == end {
			count++
		}
	}
	return count, nil
}

func (m *memReservations) TakenStarts(ctx context.Context, facilityTypeID, date string, excludeID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int]struct{})
	var starts []int
	for id, res := range m.data {
		if id == excludeID {
			continue
		}
		if res.FacilityTypeID != facilityTypeID || res.Date != date {
			continue
		}
		if _, ok := seen[res.Start]; !ok {
			seen[res.Start] = struct{}{}
			starts = append(starts, res.Start)
		}
	}
	return starts, nil
}

func (m *memReservations) ListUpcomingByUser(ctx context.Context, userID, date string, nowMinutes int) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, res := range m.data {
		if res.UserID != userID {
			continue
		}
		if res.Date < date || (res.Date == date && res.End <= nowMinutes) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (m *memReservations) Search(ctx context.Context, userIDs, guestIDs []string, restrict bool, dateFrom string) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inSet := func(set []string, v string) bool {
		for _, s := range set {
			if s == v {
				return true
			}
		}
		return false
	}
	var out []models.Reservation
	for _, res := range m.data {
		if restrict && !inSet(userIDs, res.UserID) && !inSet(guestIDs, res.GuestID) {
			continue
		}
		if dateFrom != "" && res.Date < dateFrom {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (m *memReservations) DetachItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, res := range m.data {
		if res.FacilityItemID == itemID {
			res.FacilityItemID = ""
			m.data[id] = res
		}
	}
	return nil
}

func (m *memReservations) DeleteByItemIDs(ctx context.Context, itemIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, res := range m.data {
		for _, itemID := range itemIDs {
			if res.FacilityItemID == itemID {
				delete(m.data, id)
				break
			}
		}
	}
	return nil
}

func (m *memReservations) EnsureIndexes() error { return nil }

// memGuests is an in-memory GuestRepository.
type memGuests struct {
	nextID int
	data   []models.GuestRecord
}

func (m *memGuests) Create(ctx context.Context, guest *models.GuestRecord) error {
	if guest.ID == "" {
		m.nextID++
		guest.ID = fmt.Sprintf("guest-%d", m.nextID)
	}
	m.data = append(m.data, *guest)
	return nil
}

func (m *memGuests) GetByID(ctx context.Context, id string) (*models.GuestRecord, error) {
	for i := range m.data {
		if m.data[i].ID == id {
			return &m.data[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memGuests) FindIDsByPrefix(ctx context.Context, name, phone, email string) ([]string, error) {
	var ids []string
	for _, g := range m.data {
		if name != "" && (len(g.FullName) < len(name) || g.FullName[:len(name)] != name) {
			continue
		}
		if phone != "" && (len(g.Phone) < len(phone) || g.Phone[:len(phone)] != phone) {
			continue
		}
		if email != "" && (len(g.Email) < len(email) || g.Email[:len(email)] != email) {
			continue
		}
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func (m *memGuests) EnsureIndexes() error { return nil }
