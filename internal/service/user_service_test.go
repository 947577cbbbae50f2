package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counseling-userservice-be/internal/dto"
	"counseling-userservice-be/internal/entity"
	"counseling-userservice-be/internal/pkg/apperr"
	"counseling-userservice-be/internal/tenant"
	"counseling-userservice-be/pkg/agencydir"
	"counseling-userservice-be/pkg/identity"
)

type fakeIdentityProvider struct {
	created []string
	deleted []string
	nextId  int
}

func (p *fakeIdentityProvider) CreateAccount(_ context.Context, username, _ string) (string, error) {
	p.created = append(p.created, username)
	p.nextId++
	return fmt.Sprintf("account-%d", p.nextId), nil
}

func (p *fakeIdentityProvider) DeleteAccount(_ context.Context, accountId string) error {
	p.deleted = append(p.deleted, accountId)
	return nil
}

func (p *fakeIdentityProvider) GetAccount(_ context.Context, _ string) (*identity.Account, error) {
	return nil, nil
}

var _ identity.Provider = (*fakeIdentityProvider)(nil)

type fakeDirectory struct {
	agencies map[int64]*agencydir.Agency
}

func (d *fakeDirectory) GetAgency(_ context.Context, agencyId int64) (*agencydir.Agency, error) {
	return d.agencies[agencyId], nil
}

type userFixture struct {
	uow        *fakeUnitOfWork
	idp        *fakeIdentityProvider
	dispatcher *fakeDispatcher
	service    IUserService
}

func newUserFixture(agencies ...*agencydir.Agency) *userFixture {
	dir := &fakeDirectory{agencies: make(map[int64]*agencydir.Agency)}
	for _, a := range agencies {
		dir.agencies[a.Id] = a
	}
	uow := newFakeUnitOfWork()
	idp := &fakeIdentityProvider{}
	dispatcher := &fakeDispatcher{}
	svc := NewUserService(&fakeFactory{uow: uow}, idp, dir, dispatcher, nopLogger{})
	return &userFixture{uow: uow, idp: idp, dispatcher: dispatcher, service: svc}
}

func registerRequest() *dto.RegisterUserRequest {
	return &dto.RegisterUserRequest{
		Username:         "Asker",
		Password:         "s3cret-enough",
		AgencyId:         5,
		ConsultingTypeId: 10,
		Postcode:         "12345",
		TermsAccepted:    true,
	}
}

func TestRegisterCreatesUserAndInitialSession(t *testing.T) {
	f := newUserFixture(&agencydir.Agency{Id: 5, ConsultingTypeId: 10, TeamAgency: true})

	res, err := f.service.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "asker", res.Username)

	user := f.uow.users.users[res.UserId]
	require.NotNil(t, user)
	assert.Equal(t, "asker", user.Username)
	assert.NotEqual(t, "s3cret-enough", user.PasswordHash)
	assert.Equal(t, "de", user.LanguageCode)

	session := f.uow.sessions.sessions[res.SessionId]
	require.NotNil(t, session)
	assert.Equal(t, entity.SessionStatusInitial, session.Status)
	assert.Equal(t, entity.RegistrationTypeRegistered, session.RegistrationType)
	require.NotNil(t, session.AgencyId)
	assert.Equal(t, int64(5), *session.AgencyId)
	assert.True(t, session.TeamSession)

	assert.Equal(t, 1, f.dispatcher.registered)
	assert.Empty(t, f.idp.deleted)
}

func TestRegisterUnknownAgencyRejected(t *testing.T) {
	f := newUserFixture()

	_, err := f.service.Register(context.Background(), registerRequest())
	require.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.Empty(t, f.idp.created)
}

func TestRegisterConsultingTypeMismatchRejected(t *testing.T) {
	f := newUserFixture(&agencydir.Agency{Id: 5, ConsultingTypeId: 99})

	_, err := f.service.Register(context.Background(), registerRequest())
	require.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.Empty(t, f.idp.created)
}

func TestRegisterTakenUsernameRejected(t *testing.T) {
	f := newUserFixture(&agencydir.Agency{Id: 5, ConsultingTypeId: 10})
	f.uow.users = newFakeUserRepo(&entity.User{Id: "u1", Username: "asker"})

	_, err := f.service.Register(context.Background(), registerRequest())
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Empty(t, f.idp.created)
}

func TestRegisterRollsBackIdentityAccountOnFailure(t *testing.T) {
	f := newUserFixture(&agencydir.Agency{Id: 5, ConsultingTypeId: 10})
	f.uow.users.failCreate = errors.New("disk on fire")

	_, err := f.service.Register(context.Background(), registerRequest())
	require.Error(t, err)
	require.Len(t, f.idp.created, 1)
	require.Len(t, f.idp.deleted, 1)
	assert.Equal(t, "account-1", f.idp.deleted[0])
	assert.Zero(t, f.dispatcher.registered)
}

func TestRegisterAnonymousRequiresTenant(t *testing.T) {
	f := newUserFixture()

	_, err := f.service.RegisterAnonymous(context.Background(), &dto.RegisterAnonymousRequest{ConsultingTypeId: 10})
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestRegisterAnonymous(t *testing.T) {
	f := newUserFixture()
	ctx := tenant.WithTenant(context.Background(), 3)

	res, err := f.service.RegisterAnonymous(ctx, &dto.RegisterAnonymousRequest{ConsultingTypeId: 10})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Username, "anonymous-"))

	user := f.uow.users.users[res.UserId]
	require.NotNil(t, user)
	assert.True(t, user.Anonymous)

	session := f.uow.sessions.sessions[res.SessionId]
	require.NotNil(t, session)
	assert.Equal(t, entity.RegistrationTypeAnonymous, session.RegistrationType)
	assert.Equal(t, 1, f.dispatcher.registered)
}
