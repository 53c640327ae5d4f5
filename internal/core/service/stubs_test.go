package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory membership repository
// ---------------------------------------------------------------------------

type stubMembershipRepo struct {
	mu      sync.Mutex
	byKey   map[string]*domain.Membership
	putErr  error // if set, Put returns this error
	listErr error // if set, ListByProject returns this error
}

func newStubMembershipRepo() *stubMembershipRepo {
	return &stubMembershipRepo{byKey: make(map[string]*domain.Membership)}
}

func membershipKey(projectID, userID string) string {
	return projectID + "/" + userID
}

func (r *stubMembershipRepo) Get(_ context.Context, projectID, userID string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byKey[membershipKey(projectID, userID)]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMembershipRepo) GetRole(_ context.Context, projectID, userID string) (domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byKey[membershipKey(projectID, userID)]
	if !ok {
		return "", domain.ErrMembershipNotFound
	}
	return m.Role, nil
}

func (r *stubMembershipRepo) GetGroup(_ context.Context, projectID, userID string) (domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byKey[membershipKey(projectID, userID)]
	if !ok {
		return "", domain.ErrMembershipNotFound
	}
	// Mirrors the projection in the real repo: legacy records default to
	// consulting.
	return m.EffectiveGroup(), nil
}

func (r *stubMembershipRepo) Put(_ context.Context, m *domain.Membership) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.byKey[membershipKey(m.ProjectID, m.UserID)] = &clone
	return nil
}

// ClaimProject mirrors the conditional upsert: the insert happens only
// when the project has no memberships, and exactly one concurrent caller
// wins under the lock.
func (r *stubMembershipRepo) ClaimProject(_ context.Context, m *domain.Membership) (bool, error) {
	if r.putErr != nil {
		return false, r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byKey {
		if existing.ProjectID == m.ProjectID {
			return false, nil
		}
	}
	clone := *m
	r.byKey[membershipKey(m.ProjectID, m.UserID)] = &clone
	return true, nil
}

func (r *stubMembershipRepo) UpdateRole(_ context.Context, projectID, userID string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byKey[membershipKey(projectID, userID)]
	if !ok {
		return domain.ErrMembershipNotFound
	}
	m.Role = role
	return nil
}

func (r *stubMembershipRepo) UpdateGroup(_ context.Context, projectID, userID string, group domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byKey[membershipKey(projectID, userID)]
	if !ok {
		return domain.ErrMembershipNotFound
	}
	m.Group = group
	return nil
}

func (r *stubMembershipRepo) Delete(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := membershipKey(projectID, userID)
	if _, ok := r.byKey[key]; !ok {
		return domain.ErrMembershipNotFound
	}
	delete(r.byKey, key)
	return nil
}

func (r *stubMembershipRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Membership, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Membership
	for _, m := range r.byKey {
		if m.ProjectID == projectID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory invitation repository
// ---------------------------------------------------------------------------

type stubInvitationRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Invitation
}

func newStubInvitationRepo() *stubInvitationRepo {
	return &stubInvitationRepo{byID: make(map[string]*domain.Invitation)}
}

func (r *stubInvitationRepo) Insert(_ context.Context, inv *domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *inv
	r.byID[inv.ID] = &clone
	return nil
}

func (r *stubInvitationRepo) FindByID(_ context.Context, id string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *stubInvitationRepo) FindByToken(_ context.Context, token string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byID {
		if inv.Token == token {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, domain.ErrInviteNotFound
}

func (r *stubInvitationRepo) ListPendingByProject(_ context.Context, projectID string) ([]*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Invitation
	for _, inv := range r.byID {
		if inv.ProjectID == projectID && inv.Status == domain.InvitationPending {
			clone := *inv
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// TransitionStatus mirrors the conditional update in the Mongo repo: the
// write only happens when the stored status matches from.
func (r *stubInvitationRepo) TransitionStatus(_ context.Context, id string, from, to domain.InvitationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	return true, nil
}

// ---------------------------------------------------------------------------
// In-memory invite link repository
// ---------------------------------------------------------------------------

type stubLinkRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.InviteLink
}

func newStubLinkRepo() *stubLinkRepo {
	return &stubLinkRepo{byID: make(map[string]*domain.InviteLink)}
}

func (r *stubLinkRepo) Insert(_ context.Context, link *domain.InviteLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *link
	r.byID[link.ID] = &clone
	return nil
}

func (r *stubLinkRepo) FindByID(_ context.Context, id string) (*domain.InviteLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *link
	return &clone, nil
}

func (r *stubLinkRepo) FindByToken(_ context.Context, token string) (*domain.InviteLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, link := range r.byID {
		if link.Token == token {
			clone := *link
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubLinkRepo) ListByProject(_ context.Context, projectID, createdBy string) ([]*domain.InviteLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.InviteLink
	for _, link := range r.byID {
		if link.ProjectID != projectID {
			continue
		}
		if createdBy != "" && link.CreatedBy != createdBy {
			continue
		}
		clone := *link
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkUsed mirrors the conditional claim: only an active link can be
// marked used, and exactly one caller wins under the lock.
func (r *stubLinkRepo) MarkUsed(_ context.Context, id, acceptedBy string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byID[id]
	if !ok || link.Status != domain.LinkActive {
		return false, nil
	}
	link.Status = domain.LinkUsed
	link.AcceptedBy = acceptedBy
	link.AcceptedAt = &at
	return true, nil
}

func (r *stubLinkRepo) MarkRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byID[id]
	if !ok || link.Status != domain.LinkActive {
		return false, nil
	}
	link.Status = domain.LinkRevoked
	return true, nil
}

// ---------------------------------------------------------------------------
// In-memory activity repository and capture emitter
// ---------------------------------------------------------------------------

type stubActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.ActivityEntry
	seq     int
}

func newStubActivityRepo() *stubActivityRepo {
	return &stubActivityRepo{}
}

func (r *stubActivityRepo) Insert(_ context.Context, entry *domain.ActivityEntry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	if clone.ID == "" {
		r.seq++
		clone.ID = "act_" + strconv.Itoa(r.seq)
	}
	if clone.Timestamp.IsZero() {
		clone.Timestamp = time.Now().UTC()
	}
	r.entries = append(r.entries, &clone)
	return clone.ID, nil
}

func (r *stubActivityRepo) ProjectPage(_ context.Context, projectID string, limit int, cursor string) (*ports.ActivityPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.ActivityEntry
	for _, e := range r.entries {
		if e.ProjectID != projectID {
			continue
		}
		if cursor != "" {
			before, err := time.Parse(time.RFC3339Nano, cursor)
			if err != nil {
				return nil, err
			}
			if !e.Timestamp.Before(before) {
				continue
			}
		}
		clone := *e
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	page := &ports.ActivityPage{Entries: matched, HasMore: limit > 0 && len(matched) == limit}
	if len(matched) > 0 {
		page.NextCursor = matched[len(matched)-1].Timestamp.Format(time.RFC3339Nano)
	}
	return page, nil
}

func (r *stubActivityRepo) Filter(_ context.Context, f ports.ActivityFilter) ([]*domain.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.ActivityEntry
	for _, e := range r.entries {
		if e.ProjectID != f.ProjectID {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if !f.From.IsZero() && e.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Timestamp.After(f.To) {
			continue
		}
		clone := *e
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

// captureEmitter records emitted entries synchronously for assertions.
type captureEmitter struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (e *captureEmitter) Emit(entry domain.ActivityEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
}

func (e *captureEmitter) actions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.entries))
	for _, entry := range e.entries {
		out = append(out, entry.Action)
	}
	return out
}

// ---------------------------------------------------------------------------
// In-memory permission cache
// ---------------------------------------------------------------------------

type stubPermCache struct {
	mu     sync.Mutex
	byKey  map[string]domain.PermissionSet
	getErr error // if set, Get returns this error
	sets   int
	dels   int
}

func newStubPermCache() *stubPermCache {
	return &stubPermCache{byKey: make(map[string]domain.PermissionSet)}
}

func (c *stubPermCache) Get(_ context.Context, projectID, userID string) (*domain.PermissionSet, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.byKey[membershipKey(projectID, userID)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *stubPermCache) Set(_ context.Context, projectID, userID string, perms domain.PermissionSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[membershipKey(projectID, userID)] = perms
	c.sets++
	return nil
}

func (c *stubPermCache) Invalidate(_ context.Context, projectID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byKey, membershipKey(projectID, userID))
	c.dels++
	return nil
}
