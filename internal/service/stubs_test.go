package service

import (
	"sync"
	"time"

	"go-depot-api/internal/model"
	"go-depot-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests. They are safe
// for concurrent use so the contention scenarios can run real goroutines.

type stubMaterialRepo struct {
	mu        sync.Mutex
	materials map[uuid.UUID]*model.Material
}

func newStubMaterialRepo(materials ...*model.Material) *stubMaterialRepo {
	r := &stubMaterialRepo{materials: make(map[uuid.UUID]*model.Material)}
	for _, m := range materials {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		r.materials[m.ID] = m
	}
	return r
}

func (r *stubMaterialRepo) Create(material *model.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	r.materials[material.ID] = material
	return nil
}

func (r *stubMaterialRepo) FindAll() ([]model.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMaterialRepo) FindActive() ([]model.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Material
	for _, m := range r.materials {
		if m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) FindLowStock() ([]model.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Material
	for _, m := range r.materials {
		if m.IsActive && m.IsLowStock() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) FindByID(id uuid.UUID) (*model.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.materials[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMaterialRepo) FindByCode(code string) (*model.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.materials {
		if m.Code == code {
			copied := *m
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMaterialRepo) Update(material *model.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[material.ID] = material
	return nil
}

func (r *stubMaterialRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Material, error) {
	return r.FindByID(id)
}

func (r *stubMaterialRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.materials[id]; ok {
		m.CurrentStock = newStock
		m.UpdatedBy = updatedBy
		return nil
	}
	return gorm.ErrRecordNotFound
}

// setStock simulates an out-of-band stock change, e.g. a concurrent
// drain between approval and note issuance.
func (r *stubMaterialRepo) setStock(id uuid.UUID, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.materials[id]; ok {
		m.CurrentStock = stock
	}
}

func (r *stubMaterialRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.materials[id]; ok {
		return m.CurrentStock
	}
	return -1
}

// stubLedger reproduces the check-and-commit contract against the
// in-memory material repo: one mutex serializes commits the way row
// locks do in the real implementation.
type stubLedger struct {
	mu        sync.Mutex
	materials *stubMaterialRepo
	movements []*model.StockMovement
}

func newStubLedger(materials *stubMaterialRepo) *stubLedger {
	return &stubLedger{materials: materials}
}

func (l *stubLedger) Commit(in CommitInput) (*model.StockMovement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	material, err := l.materials.FindByID(in.MaterialID)
	if err != nil {
		return nil, ErrMaterialNotFound
	}

	after, delta, err := nextStock(in.Type, in.Quantity, material.CurrentStock, in.AllowNegative)
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		if err := l.materials.UpdateStock(nil, material.ID, after, in.Actor); err != nil {
			return nil, err
		}
	}

	movement := &model.StockMovement{
		MaterialID:     material.ID,
		Type:           in.Type,
		Quantity:       delta,
		StockBefore:    material.CurrentStock,
		StockAfter:     after,
		Actor:          in.Actor,
		Motif:          in.Motif,
		Description:    in.Description,
		RequestID:      in.RequestID,
		DeliveryNoteID: in.DeliveryNoteID,
	}
	movement.ID = uuid.New()
	l.movements = append(l.movements, movement)
	return movement, nil
}

func (l *stubLedger) movementsFor(materialID uuid.UUID) []*model.StockMovement {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*model.StockMovement
	for _, m := range l.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	return out
}

type stubRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.MaterialRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[uuid.UUID]*model.MaterialRequest)}
}

func (r *stubRequestRepo) Create(request *model.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	for i := range request.Items {
		if request.Items[i].ID == uuid.Nil {
			request.Items[i].ID = uuid.New()
		}
		request.Items[i].RequestID = request.ID
	}
	r.requests[request.ID] = request
	return nil
}

// FindByID hands out a copy, the way the real repository hydrates a
// fresh struct per query: callers only write back through
// UpdateStatusIf and SaveItems.
func (r *stubRequestRepo) FindByID(id uuid.UUID) (*model.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	copied.Items = make([]model.RequestItem, len(req.Items))
	copy(copied.Items, req.Items)
	return &copied, nil
}

func (r *stubRequestRepo) FindAll(filter repository.RequestFilter) ([]model.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MaterialRequest
	for _, req := range r.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *stubRequestRepo) UpdateStatusIf(id uuid.UUID, from, to model.RequestStatus, fields map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	for key, value := range fields {
		switch key {
		case "keeper_comment":
			req.KeeperComment = value.(string)
		case "validator_id":
			req.ValidatorID = value.(string)
		case "validated_at":
			req.ValidatedAt = value.(*time.Time)
		case "delivered_at":
			req.DeliveredAt = value.(*time.Time)
		case "archive_motif":
			req.ArchiveMotif = value.(string)
		case "updated_by":
			req.UpdatedBy = value.(string)
		case "deleted_by":
			req.DeletedBy = value.(string)
		}
	}
	return true, nil
}

func (r *stubRequestRepo) SaveItems(items []model.RequestItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		for _, req := range r.requests {
			for i := range req.Items {
				if req.Items[i].ID == item.ID {
					req.Items[i] = item
				}
			}
		}
	}
	return nil
}

type stubSiteRepo struct {
	sites map[uuid.UUID]*model.Site
}

func newStubSiteRepo(sites ...*model.Site) *stubSiteRepo {
	r := &stubSiteRepo{sites: make(map[uuid.UUID]*model.Site)}
	for _, s := range sites {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.sites[s.ID] = s
	}
	return r
}

func (r *stubSiteRepo) Create(site *model.Site) error {
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	r.sites[site.ID] = site
	return nil
}

func (r *stubSiteRepo) Update(site *model.Site) error {
	r.sites[site.ID] = site
	return nil
}

func (r *stubSiteRepo) Delete(id uuid.UUID, deletedBy string) error {
	delete(r.sites, id)
	return nil
}

func (r *stubSiteRepo) FindByID(id uuid.UUID) (*model.Site, error) {
	if s, ok := r.sites[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSiteRepo) FindByName(name string) (*model.Site, error) {
	for _, s := range r.sites {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSiteRepo) FindAll() ([]model.Site, error) {
	var out []model.Site
	for _, s := range r.sites {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSiteRepo) FindByManagerID(managerID string) ([]model.Site, error) {
	var out []model.Site
	for _, s := range r.sites {
		if s.ManagerID != nil && *s.ManagerID == managerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type stubSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newStubSequenceRepo() *stubSequenceRepo {
	return &stubSequenceRepo{counters: make(map[string]int64)}
}

func (r *stubSequenceRepo) Next(scope string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[scope]++
	return r.counters[scope], nil
}

type stubNoteRepo struct {
	mu        sync.Mutex
	notes     []*model.DeliveryNote
	createErr error
}

func (r *stubNoteRepo) Create(note *model.DeliveryNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.notes = append(r.notes, note)
	return nil
}

func (r *stubNoteRepo) FindByID(id uuid.UUID) (*model.DeliveryNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubNoteRepo) FindByRequestID(requestID uuid.UUID) (*model.DeliveryNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.RequestID != nil && *n.RequestID == requestID {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubNoteRepo) FindAll() ([]model.DeliveryNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.DeliveryNote, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, *n)
	}
	return out, nil
}

func (r *stubNoteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Update(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error { return nil }

func (r *stubUserRepo) UpdatePrivileges(userID uuid.UUID, privileges []model.Privilege) error {
	return nil
}

func (r *stubUserRepo) FindAll() ([]model.User, error) { return nil, nil }

func (r *stubUserRepo) FindPendingApproval() ([]model.User, error) { return nil, nil }

func (r *stubUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error { return nil }

func (r *stubUserRepo) UpdateLastSeen(userID uuid.UUID) error { return nil }

type stubNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *stubNotifier) Publish(event string, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *stubNotifier) published(event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e == event {
			return true
		}
	}
	return false
}
