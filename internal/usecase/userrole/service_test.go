package userrole

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domuser "example.com/shop-core/internal/domain/user"
	domrole "example.com/shop-core/internal/domain/userrole"
)

type mockRoleRepository struct {
	roles  map[int64]*domrole.UserRole
	nextID int64
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{roles: make(map[int64]*domrole.UserRole)}
}

func (m *mockRoleRepository) Create(ctx context.Context, role *domrole.UserRole) (*domrole.UserRole, error) {
	for _, existing := range m.roles {
		if existing.Code == role.Code {
			return nil, domrole.ErrRoleCodeExisted
		}
	}
	m.nextID++
	role.ID = m.nextID
	m.roles[role.ID] = role
	return role, nil
}

func (m *mockRoleRepository) Update(ctx context.Context, role *domrole.UserRole) (*domrole.UserRole, error) {
	m.roles[role.ID] = role
	return role, nil
}

func (m *mockRoleRepository) Delete(ctx context.Context, id int64) error {
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepository) GetByID(ctx context.Context, id int64) (*domrole.UserRole, error) {
	if role, ok := m.roles[id]; ok {
		return role, nil
	}
	return nil, domrole.ErrRoleNotFound
}

func (m *mockRoleRepository) GetByCode(ctx context.Context, code string) (*domrole.UserRole, error) {
	for _, role := range m.roles {
		if string(role.Code) == code {
			return role, nil
		}
	}
	return nil, domrole.ErrRoleNotFound
}

func (m *mockRoleRepository) List(ctx context.Context, filter domrole.ListFilter) ([]*domrole.UserRole, error) {
	result := make([]*domrole.UserRole, 0, len(m.roles))
	for _, role := range m.roles {
		result = append(result, role)
	}
	return result, nil
}

func TestCreateRole_NormalizesCode(t *testing.T) {
	svc := NewService(newMockRoleRepository())

	role, err := svc.Create(context.Background(), CreateInput{
		Code: "  warehouse_staff ",
		Name: "Warehouse Staff",
	})

	require.NoError(t, err)
	require.Equal(t, domuser.RoleCode("WAREHOUSE_STAFF"), role.Code)
}

func TestCreateRole_InvalidCode(t *testing.T) {
	svc := NewService(newMockRoleRepository())

	_, err := svc.Create(context.Background(), CreateInput{
		Code: "no spaces allowed",
		Name: "Broken",
	})

	require.ErrorIs(t, err, domuser.ErrInvalidRoleCode)
}

func TestCreateRole_DuplicateCode(t *testing.T) {
	repo := newMockRoleRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Code: "STAFF", Name: "Staff"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Code: "STAFF", Name: "Staff Again"})

	require.ErrorIs(t, err, domrole.ErrRoleCodeExisted)
}

func TestUpdateRole_SystemRoleImmutable(t *testing.T) {
	repo := newMockRoleRepository()
	repo.roles[1] = &domrole.UserRole{
		ID:       1,
		Code:     domuser.RoleCodeSuperAdmin,
		Name:     "Super Admin",
		IsSystem: true,
	}
	svc := NewService(repo)
	name := "Renamed"

	_, err := svc.Update(context.Background(), UpdateInput{ID: 1, Name: &name})

	require.ErrorIs(t, err, domrole.ErrRoleImmutable)
}

func TestUpdateRole_PartialUpdate(t *testing.T) {
	repo := newMockRoleRepository()
	repo.roles[1] = &domrole.UserRole{
		ID:          1,
		Code:        domuser.RoleCode("STAFF"),
		Name:        "Staff",
		Description: "original",
	}
	svc := NewService(repo)
	desc := "updated description"

	role, err := svc.Update(context.Background(), UpdateInput{ID: 1, Description: &desc})

	require.NoError(t, err)
	require.Equal(t, "Staff", role.Name, "nil field stays untouched")
	require.Equal(t, "updated description", role.Description)
}

func TestDeleteRole_SystemRoleImmutable(t *testing.T) {
	repo := newMockRoleRepository()
	repo.roles[1] = &domrole.UserRole{
		ID:       1,
		Code:     domuser.RoleCodeCustomer,
		IsSystem: true,
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), 1)

	require.ErrorIs(t, err, domrole.ErrRoleImmutable)
	require.Contains(t, repo.roles, int64(1))
}

func TestDeleteRole_NotFound(t *testing.T) {
	svc := NewService(newMockRoleRepository())

	err := svc.Delete(context.Background(), 999)

	require.ErrorIs(t, err, domrole.ErrRoleNotFound)
}
