package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/repository/contract"
	"counseling-userservice-be/internal/repository/specification"
	"counseling-userservice-be/internal/repository/unitofwork"
	"counseling-userservice-be/pkg/chatroom"
)

// In-memory fakes for the repository contracts, keyed off the
// specification values the services actually use.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[int64]*entity.Session
	nextId   int64
}

func newFakeSessionRepo(sessions ...*entity.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[int64]*entity.Session), nextId: 1}
	for _, s := range sessions {
		if s.Id == 0 {
			s.Id = r.nextId
		}
		if s.Id >= r.nextId {
			r.nextId = s.Id + 1
		}
		r.sessions[s.Id] = s
	}
	return r
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.Id = r.nextId
	r.nextId++
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if matchesSession(s, specs) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Session
	for _, s := range r.sessions {
		if matchesSession(s, specs) {
			copied := *s
			out = append(out, &copied)
		}
	}
	for _, spec := range specs {
		if _, ok := spec.(specification.OrderByEnquiryDateAsc); ok {
			sort.Slice(out, func(i, j int) bool {
				a, b := out[i].EnquiryMessageDate, out[j].EnquiryMessageDate
				if a == nil || b == nil {
					return b == nil
				}
				return a.Before(*b)
			})
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if matchesSession(s, specs) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) AssignConsultantIfUnclaimed(_ context.Context, sessionId int64, consultantId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionId]
	if !ok || s.ConsultantId != nil || s.Status != entity.SessionStatusNew {
		return false, nil
	}
	s.ConsultantId = &consultantId
	s.Status = entity.SessionStatusInProgress
	return true, nil
}

func (r *fakeSessionRepo) ReassignConsultant(_ context.Context, sessionId int64, expected *string, newConsultantId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionId]
	if !ok {
		return false, nil
	}
	if expected == nil {
		if s.ConsultantId != nil {
			return false, nil
		}
	} else if s.ConsultantId == nil || *s.ConsultantId != *expected {
		return false, nil
	}
	s.ConsultantId = &newConsultantId
	s.Status = entity.SessionStatusInProgress
	return true, nil
}

func matchesSession(s *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ById:
			if s.Id != v.Id {
				return false
			}
		case specification.ByUser:
			if s.UserId != v.UserId {
				return false
			}
		case specification.ByStatus:
			if s.Status != v.Status {
				return false
			}
		case specification.Unassigned:
			if s.ConsultantId != nil {
				return false
			}
		case specification.ByAgencyIdIn:
			found := false
			for _, id := range v.AgencyIds {
				if s.AgencyId != nil && *s.AgencyId == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.NotConsultant:
			if s.ConsultantId != nil && *s.ConsultantId == v.ConsultantId {
				return false
			}
		case specification.TeamSessionsOnly:
			if !s.TeamSession {
				return false
			}
		case specification.UpdatedBefore:
			if !s.UpdateDate.Before(v.Cutoff) {
				return false
			}
		}
	}
	return true
}

type fakeConsultantRepo struct {
	consultants map[string]*entity.Consultant
}

func newFakeConsultantRepo(consultants ...*entity.Consultant) *fakeConsultantRepo {
	r := &fakeConsultantRepo{consultants: make(map[string]*entity.Consultant)}
	for _, c := range consultants {
		r.consultants[c.Id] = c
	}
	return r
}

func (r *fakeConsultantRepo) Create(_ context.Context, c *entity.Consultant) error {
	r.consultants[c.Id] = c
	return nil
}

func (r *fakeConsultantRepo) Update(_ context.Context, c *entity.Consultant) error {
	r.consultants[c.Id] = c
	return nil
}

func (r *fakeConsultantRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Consultant, error) {
	for _, spec := range specs {
		if v, ok := spec.(specification.ByConsultantId); ok {
			return r.consultants[v.Id], nil
		}
	}
	return nil, nil
}

func (r *fakeConsultantRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Consultant, error) {
	var out []*entity.Consultant
	for _, c := range r.consultants {
		keep := true
		for _, spec := range specs {
			if v, ok := spec.(specification.ConsultantsInAgency); ok && !c.IsInAgency(v.AgencyId) {
				keep = false
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConsultantRepo) AddAgencyRelation(_ context.Context, consultantId string, agencyId int64) error {
	c, ok := r.consultants[consultantId]
	if !ok {
		return fmt.Errorf("consultant %s not found", consultantId)
	}
	c.AgencyIds = append(c.AgencyIds, agencyId)
	return nil
}

func (r *fakeConsultantRepo) RemoveAgencyRelation(_ context.Context, consultantId string, agencyId int64) error {
	c, ok := r.consultants[consultantId]
	if !ok {
		return fmt.Errorf("consultant %s not found", consultantId)
	}
	for i, id := range c.AgencyIds {
		if id == agencyId {
			c.AgencyIds = append(c.AgencyIds[:i], c.AgencyIds[i+1:]...)
			break
		}
	}
	return nil
}

type fakeUserRepo struct {
	users      map[string]*entity.User
	failCreate error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.Id] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.users[u.Id] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.Id] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if v, ok := spec.(specification.FilterBy); ok {
			for _, u := range r.users {
				switch v.Field {
				case "id":
					if u.Id == v.Value {
						return u, nil
					}
				case "username":
					if u.Username == v.Value {
						return u, nil
					}
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		keep := true
		for _, spec := range specs {
			switch v := spec.(type) {
			case specification.AnonymousOnly:
				if !u.Anonymous {
					keep = false
				}
			case specification.UpdatedBefore:
				if !u.UpdateDate.Before(v.Cutoff) {
					keep = false
				}
			}
		}
		if keep {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	chats      map[int64]*entity.Chat
	agencyRows map[int64][]int64
	userRows   map[int64][]string
	nextId     int64
}

func newFakeChatRepo(chats ...*entity.Chat) *fakeChatRepo {
	r := &fakeChatRepo{
		chats:      make(map[int64]*entity.Chat),
		agencyRows: make(map[int64][]int64),
		userRows:   make(map[int64][]string),
		nextId:     1,
	}
	for _, c := range chats {
		if c.Id == 0 {
			c.Id = r.nextId
		}
		if c.Id >= r.nextId {
			r.nextId = c.Id + 1
		}
		r.chats[c.Id] = c
		r.agencyRows[c.Id] = append([]int64{}, c.AgencyIds...)
	}
	return r
}

func (r *fakeChatRepo) Create(_ context.Context, chat *entity.Chat) error {
	chat.Id = r.nextId
	r.nextId++
	r.chats[chat.Id] = chat
	return nil
}

func (r *fakeChatRepo) Update(_ context.Context, chat *entity.Chat) error {
	r.chats[chat.Id] = chat
	return nil
}

func (r *fakeChatRepo) Delete(_ context.Context, id int64) error {
	delete(r.chats, id)
	return nil
}

func (r *fakeChatRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	for _, spec := range specs {
		if v, ok := spec.(specification.ById); ok {
			if c, found := r.chats[v.Id]; found {
				copied := *c
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Chat, error) {
	var out []*entity.Chat
	for _, c := range r.chats {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeChatRepo) AddAgencyLinks(_ context.Context, chatId int64, agencyIds []int64) error {
	r.agencyRows[chatId] = append(r.agencyRows[chatId], agencyIds...)
	return nil
}

func (r *fakeChatRepo) AddUserLink(_ context.Context, chatId int64, userId string) error {
	r.userRows[chatId] = append(r.userRows[chatId], userId)
	return nil
}

func (r *fakeChatRepo) RemoveUserLink(_ context.Context, chatId int64, userId string) error {
	rows := r.userRows[chatId]
	for i, id := range rows {
		if id == userId {
			r.userRows[chatId] = append(rows[:i], rows[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeChatRepo) DeleteDependents(_ context.Context, chatId int64) error {
	delete(r.agencyRows, chatId)
	delete(r.userRows, chatId)
	return nil
}

func (r *fakeChatRepo) FindAgencyIds(_ context.Context, chatId int64) ([]int64, error) {
	return r.agencyRows[chatId], nil
}

func (r *fakeChatRepo) FindUserIds(_ context.Context, chatId int64) ([]string, error) {
	return r.userRows[chatId], nil
}

func (r *fakeChatRepo) CountUsers(_ context.Context, chatId int64) (int64, error) {
	return int64(len(r.userRows[chatId])), nil
}

// fakeUnitOfWork shares its repositories across all units handed out by
// the factory, mirroring one database underneath many transactions.
type fakeUnitOfWork struct {
	sessions    *fakeSessionRepo
	chats       *fakeChatRepo
	consultants *fakeConsultantRepo
	users       *fakeUserRepo

	mu        sync.Mutex
	begun     int
	committed int
	rolled    int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		sessions:    newFakeSessionRepo(),
		chats:       newFakeChatRepo(),
		consultants: newFakeConsultantRepo(),
		users:       newFakeUserRepo(),
	}
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.begun++
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rolled++
	return nil
}

func (u *fakeUnitOfWork) SessionRepository() contract.SessionRepository       { return u.sessions }
func (u *fakeUnitOfWork) ChatRepository() contract.ChatRepository             { return u.chats }
func (u *fakeUnitOfWork) ConsultantRepository() contract.ConsultantRepository { return u.consultants }
func (u *fakeUnitOfWork) UserRepository() contract.UserRepository             { return u.users }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

var _ unitofwork.RepositoryFactory = (*fakeFactory)(nil)

// fakeGateway records every chat-backend call and fails the ones listed
// in errOn.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []string
	errOn   map[string]error
	groupId int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{errOn: make(map[string]error)}
}

func (g *fakeGateway) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	for prefix, err := range g.errOn {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			return err
		}
	}
	return nil
}

func (g *fakeGateway) callCount(prefix string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, call := range g.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (g *fakeGateway) exactCount(call string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (g *fakeGateway) CreateGroup(_ context.Context, name string) (string, error) {
	if err := g.record("create:" + name); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groupId++
	return fmt.Sprintf("group-%d", g.groupId), nil
}

func (g *fakeGateway) DeleteGroup(_ context.Context, groupId string) error {
	return g.record("delete:" + groupId)
}

func (g *fakeGateway) AddUserToGroup(_ context.Context, groupId, chatUserId string) error {
	return g.record("add:" + groupId + ":" + chatUserId)
}

func (g *fakeGateway) RemoveUserFromGroup(_ context.Context, groupId, chatUserId string) error {
	return g.record("remove:" + groupId + ":" + chatUserId)
}

func (g *fakeGateway) MuteUser(_ context.Context, groupId, chatUserId string) error {
	return g.record("mute:" + groupId + ":" + chatUserId)
}

func (g *fakeGateway) UnmuteUser(_ context.Context, groupId, chatUserId string) error {
	return g.record("unmute:" + groupId + ":" + chatUserId)
}

func (g *fakeGateway) UpdateGroupKey(_ context.Context, groupId, key string) error {
	return g.record("key:" + groupId + ":" + key)
}

func (g *fakeGateway) CleanGroupHistory(_ context.Context, groupId string) error {
	return g.record("clean:" + groupId)
}

var _ chatroom.Gateway = (*fakeGateway)(nil)

// fakeDispatcher counts fan-outs per event.
type fakeDispatcher struct {
	mu          sync.Mutex
	assigned    int
	deactivated int
	archived    int
	enquiries   int
	started     int
	stopped     int
	registered  int
}

func (d *fakeDispatcher) SessionAssigned(_ context.Context, _ *entity.Session, _ *entity.Consultant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assigned++
}

func (d *fakeDispatcher) SessionDeactivated(_ context.Context, _ *entity.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deactivated++
}

func (d *fakeDispatcher) SessionArchived(_ context.Context, _ *entity.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.archived++
}

func (d *fakeDispatcher) EnquiryCreated(_ context.Context, _ *entity.Session, _ string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enquiries++
}

func (d *fakeDispatcher) ChatStarted(_ context.Context, _ *entity.Chat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started++
}

func (d *fakeDispatcher) ChatStopped(_ context.Context, _ *entity.Chat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped++
}

func (d *fakeDispatcher) UserRegistered(_ context.Context, _ *entity.User, _ *entity.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registered++
}

var _ INotificationDispatcher = (*fakeDispatcher)(nil)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
