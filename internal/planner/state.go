package planner

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Item is one checklist line of a plan as the client holds it.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Plan mirrors the shape the web client keeps in local storage:
// date as YYYY-MM-DD, the free-text time label under "time", and an
// optional cafe name that never leaves the client.
type Plan struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CafeID    *int64    `json:"cafeId,omitempty"`
	CafeName  string    `json:"cafeName,omitempty"`
	Date      string    `json:"date,omitempty"`
	TimeText  string    `json:"time,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Items     []Item    `json:"items"`
}

type ActivityType string

const (
	ActivityCreated   ActivityType = "created"
	ActivityCompleted ActivityType = "completed"
)

// Activity is an informational log entry; it is never synced.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Title     string       `json:"title"`
	CafeName  string       `json:"cafeName,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// activityCap bounds the log to the most recent entries.
const activityCap = 8

type SaveState string

const (
	StateIdle   SaveState = "idle"
	StateSaving SaveState = "saving"
	StateSaved  SaveState = "saved"
	StateError  SaveState = "error"
)

// MetaField addresses one editable plan attribute for EditMeta.
type MetaField string

const (
	MetaTitle MetaField = "title"
	MetaDate  MetaField = "date"
	MetaTime  MetaField = "time"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrItemNotFound = errors.New("item not found")
	ErrEmptyText    = errors.New("text must not be empty")
	ErrBadIndex     = errors.New("index out of range")
)

// Planner is the client-side state container for a user's plans. All
// mutations are local-first: they apply immediately, write the cache, and
// notify the syncer. The server only ever mirrors this state.
type Planner struct {
	mu         sync.Mutex
	plans      []Plan
	activities []Activity
	state      SaveState
	generation uint64
	loaded     bool
	authed     bool
	cache      *Cache
	onMutate   func()
}

func NewPlanner(cache *Cache) *Planner {
	return &Planner{
		state: StateIdle,
		cache: cache,
	}
}

// SetOnMutate registers the sync trigger. It fires only for mutations that
// happen while authenticated and loaded.
func (p *Planner) SetOnMutate(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onMutate = fn
}

func (p *Planner) SetAuthenticated(authed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authed = authed
}

func (p *Planner) Authenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authed
}

func (p *Planner) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// LoadLocal seeds state from the cache. Used on startup and as the
// fallback when the server is unreachable.
func (p *Planner) LoadLocal() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.plans = nil
	if p.cache != nil {
		if cached, err := p.cache.LoadPlans(); err == nil {
			p.plans = cached
		}
		if acts, err := p.cache.LoadActivities(); err == nil {
			p.activities = acts
		}
	}
	for i := range p.plans {
		if p.plans[i].CreatedAt.IsZero() {
			p.plans[i].CreatedAt = time.Now()
		}
	}
	p.loaded = true
	p.state = StateIdle
}

// LoadServer seeds state from a server snapshot after a successful fetch.
func (p *Planner) LoadServer(remote []RemotePlan) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.plans = make([]Plan, 0, len(remote))
	for _, rp := range remote {
		p.plans = append(p.plans, fromRemote(rp))
	}
	if p.cache != nil {
		if acts, err := p.cache.LoadActivities(); err == nil {
			p.activities = acts
		}
	}
	p.loaded = true
	p.state = StateSaved
	p.persistPlansLocked()
}

func (p *Planner) Plans() []Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Plan, len(p.plans))
	copy(out, p.plans)
	return out
}

func (p *Planner) Activities() []Activity {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Activity, len(p.activities))
	copy(out, p.activities)
	return out
}

func (p *Planner) State() SaveState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CreatePlan prepends a new empty plan and records a created activity.
func (p *Planner) CreatePlan(title string, cafeID *int64, cafeName string) Plan {
	p.mu.Lock()
	defer p.mu.Unlock()

	if title == "" {
		if cafeName != "" {
			title = cafeName + " visit plan"
		} else {
			title = "My visit plan"
		}
	}

	plan := Plan{
		ID:        uuid.NewString(),
		Title:     title,
		CafeID:    cafeID,
		CafeName:  cafeName,
		CreatedAt: time.Now(),
		Items:     []Item{},
	}
	p.plans = append([]Plan{plan}, p.plans...)

	p.pushActivityLocked(Activity{
		ID:        plan.ID,
		Type:      ActivityCreated,
		Title:     plan.Title,
		CafeName:  cafeName,
		Timestamp: plan.CreatedAt,
	})

	p.mutatedLocked()
	return plan
}

func (p *Planner) AddItem(planID, text string) (Item, error) {
	if text == "" {
		return Item{}, ErrEmptyText
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOfLocked(planID)
	if idx < 0 {
		return Item{}, ErrPlanNotFound
	}

	item := Item{ID: uuid.NewString(), Text: text, Done: false}
	plan := p.plans[idx]
	plan.Items = append(append([]Item{}, plan.Items...), item)
	p.plans[idx] = plan

	p.mutatedLocked()
	return item, nil
}

func (p *Planner) ToggleItem(planID, itemID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOfLocked(planID)
	if idx < 0 {
		return ErrPlanNotFound
	}

	plan := p.plans[idx]
	items := append([]Item{}, plan.Items...)
	found := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Done = !items[i].Done
			found = true
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}
	plan.Items = items
	p.plans[idx] = plan

	p.mutatedLocked()
	return nil
}

// ReorderItem moves one item within a plan; all other plans are untouched.
func (p *Planner) ReorderItem(planID string, from, to int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOfLocked(planID)
	if idx < 0 {
		return ErrPlanNotFound
	}

	plan := p.plans[idx]
	if from < 0 || from >= len(plan.Items) || to < 0 || to >= len(plan.Items) {
		return ErrBadIndex
	}
	if from == to {
		return nil
	}

	items := append([]Item{}, plan.Items...)
	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	rest := append([]Item{}, items[to:]...)
	items = append(append(items[:to], moved), rest...)
	plan.Items = items
	p.plans[idx] = plan

	p.mutatedLocked()
	return nil
}

func (p *Planner) EditMeta(planID string, field MetaField, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOfLocked(planID)
	if idx < 0 {
		return ErrPlanNotFound
	}

	plan := p.plans[idx]
	switch field {
	case MetaTitle:
		if value == "" {
			return ErrEmptyText
		}
		plan.Title = value
	case MetaDate:
		plan.Date = value
	case MetaTime:
		plan.TimeText = value
	default:
		return errors.New("unknown field")
	}
	p.plans[idx] = plan

	p.mutatedLocked()
	return nil
}

func (p *Planner) RemovePlan(planID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOfLocked(planID)
	if idx < 0 {
		return ErrPlanNotFound
	}
	p.plans = append(p.plans[:idx], p.plans[idx+1:]...)

	p.mutatedLocked()
	return nil
}

// CompletePlan marks every item done in one mutation and records a
// completed activity.
func (p *Planner) CompletePlan(planID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOfLocked(planID)
	if idx < 0 {
		return ErrPlanNotFound
	}

	plan := p.plans[idx]
	items := append([]Item{}, plan.Items...)
	for i := range items {
		items[i].Done = true
	}
	plan.Items = items
	p.plans[idx] = plan

	now := time.Now()
	p.pushActivityLocked(Activity{
		ID:        planID + "-completed-" + now.Format(time.RFC3339Nano),
		Type:      ActivityCompleted,
		Title:     plan.Title,
		CafeName:  plan.CafeName,
		Timestamp: now,
	})

	p.mutatedLocked()
	return nil
}

/* ---------------- sync plumbing ---------------- */

// syncPayload returns the full current snapshot in wire form together with
// the generation it was taken at.
func (p *Planner) syncPayload() ([]RemotePlan, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]RemotePlan, 0, len(p.plans))
	for _, plan := range p.plans {
		out = append(out, toRemote(plan))
	}
	return out, p.generation
}

// markSaved completes the saving state only when no mutation arrived after
// the flushed snapshot was taken.
func (p *Planner) markSaved(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == generation {
		p.state = StateSaved
	}
}

func (p *Planner) markError(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == generation {
		p.state = StateError
	}
}

// adoptServerIDs takes over server-minted ids for entries submitted without
// one, so later edits address the same rows. Nothing else from the server
// echo overwrites local state. New plans surface at the tail of the
// server's createdAt ordering in submission order; items are positional
// within their plan because order equals position.
func (p *Planner) adoptServerIDs(remote []RemotePlan) {
	p.mu.Lock()
	defer p.mu.Unlock()

	known := make(map[string]bool, len(p.plans))
	for _, plan := range p.plans {
		if plan.ID != "" {
			known[plan.ID] = true
		}
	}

	var fresh []RemotePlan
	byID := make(map[string]RemotePlan, len(remote))
	for _, rp := range remote {
		byID[rp.ID] = rp
		if !known[rp.ID] {
			fresh = append(fresh, rp)
		}
	}

	next := 0
	changed := false
	for i := range p.plans {
		if p.plans[i].ID == "" {
			if next >= len(fresh) {
				break
			}
			p.plans[i].ID = fresh[next].ID
			byID[p.plans[i].ID] = fresh[next]
			next++
			changed = true
		}
	}

	for i := range p.plans {
		rp, ok := byID[p.plans[i].ID]
		if !ok {
			continue
		}
		for j := range p.plans[i].Items {
			if p.plans[i].Items[j].ID == "" && j < len(rp.Items) {
				p.plans[i].Items[j].ID = rp.Items[j].ID
				changed = true
			}
		}
	}

	if changed {
		p.persistPlansLocked()
	}
}

/* ---------------- internals ---------------- */

func (p *Planner) indexOfLocked(planID string) int {
	for i := range p.plans {
		if p.plans[i].ID == planID {
			return i
		}
	}
	return -1
}

func (p *Planner) pushActivityLocked(entry Activity) {
	p.activities = append([]Activity{entry}, p.activities...)
	if len(p.activities) > activityCap {
		p.activities = p.activities[:activityCap]
	}
	if p.cache != nil {
		_ = p.cache.SaveActivities(p.activities)
	}
}

// mutatedLocked persists the cache and, when authenticated with the first
// load complete, moves the state machine to saving and pokes the syncer.
func (p *Planner) mutatedLocked() {
	p.generation++
	p.persistPlansLocked()

	if !p.authed || !p.loaded {
		return
	}
	p.state = StateSaving
	if p.onMutate != nil {
		// safe under the lock: Schedule never calls back into the planner
		p.onMutate()
	}
}

func (p *Planner) persistPlansLocked() {
	if p.cache != nil {
		_ = p.cache.SavePlans(p.plans)
	}
}

func fromRemote(rp RemotePlan) Plan {
	plan := Plan{
		ID:        rp.ID,
		Title:     rp.Title,
		CafeID:    rp.CafeID,
		CreatedAt: rp.CreatedAt,
		Items:     make([]Item, 0, len(rp.Items)),
	}
	if rp.Date != nil {
		plan.Date = *rp.Date
	}
	if rp.TimeText != nil {
		plan.TimeText = *rp.TimeText
	}
	for _, item := range rp.Items {
		plan.Items = append(plan.Items, Item{ID: item.ID, Text: item.Text, Done: item.Done})
	}
	return plan
}

func toRemote(plan Plan) RemotePlan {
	rp := RemotePlan{
		ID:     plan.ID,
		Title:  plan.Title,
		CafeID: plan.CafeID,
		Items:  make([]RemoteItem, 0, len(plan.Items)),
	}
	if plan.Date != "" {
		d := plan.Date
		rp.Date = &d
	}
	if plan.TimeText != "" {
		t := plan.TimeText
		rp.TimeText = &t
	}
	for idx, item := range plan.Items {
		rp.Items = append(rp.Items, RemoteItem{
			ID:    item.ID,
			Text:  item.Text,
			Done:  item.Done,
			Order: idx,
		})
	}
	return rp
}
