package app

import (
	"context"
	"errors"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
)

// --- Mock implementations ---

var errNotImplemented = errors.New("not implemented")

type mockCondominiumRepo struct {
	createFn  func(ctx context.Context, c *domain.Condominium) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Condominium, error)
	listFn    func(ctx context.Context, page domain.Page) ([]*domain.Condominium, error)
	updateFn  func(ctx context.Context, c *domain.Condominium) error
}

func (m *mockCondominiumRepo) Create(ctx context.Context, c *domain.Condominium) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCondominiumRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Condominium, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockCondominiumRepo) List(ctx context.Context, page domain.Page) ([]*domain.Condominium, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page)
	}
	return nil, errNotImplemented
}

func (m *mockCondominiumRepo) Update(ctx context.Context, c *domain.Condominium) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

type mockUserRepo struct {
	createFn     func(ctx context.Context, u *domain.User) error
	getByIDFn    func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn       func(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.User, error)
	listIDsFn    func(ctx context.Context, condominiumID uuid.UUID, roles ...domain.Role) ([]uuid.UUID, error)
	updateFn     func(ctx context.Context, u *domain.User) error
	deleteFn     func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, page)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) ListIDs(ctx context.Context, condominiumID uuid.UUID, roles ...domain.Role) ([]uuid.UUID, error) {
	if m.listIDsFn != nil {
		return m.listIDsFn(ctx, condominiumID, roles...)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockPermissionRepo struct {
	getFn func(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error)
	setFn func(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) error
}

func (m *mockPermissionRepo) Get(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error) {
	if m.getFn != nil {
		return m.getFn(ctx, condominiumID)
	}
	return nil, errNotImplemented
}

func (m *mockPermissionRepo) Set(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) error {
	if m.setFn != nil {
		return m.setFn(ctx, condominiumID, perms)
	}
	return nil
}

type mockPermissionSource struct {
	permissionsFn func(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error)
	invalidateFn  func(ctx context.Context, condominiumID uuid.UUID) error
}

func (m *mockPermissionSource) Permissions(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error) {
	if m.permissionsFn != nil {
		return m.permissionsFn(ctx, condominiumID)
	}
	return nil, errNotImplemented
}

func (m *mockPermissionSource) Invalidate(ctx context.Context, condominiumID uuid.UUID) error {
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx, condominiumID)
	}
	return nil
}

type mockEquipmentRepo struct {
	createFn  func(ctx context.Context, e *domain.Equipment) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Equipment, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Equipment, error)
	updateFn  func(ctx context.Context, e *domain.Equipment) error
	deleteFn  func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	return nil
}

func (m *mockEquipmentRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Equipment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockEquipmentRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Equipment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, page)
	}
	return nil, errNotImplemented
}

func (m *mockEquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, e)
	}
	return nil
}

func (m *mockEquipmentRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockMaintenanceRepo struct {
	createFn  func(ctx context.Context, req *domain.MaintenanceRequest) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.MaintenanceRequest, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error)
	updateFn  func(ctx context.Context, req *domain.MaintenanceRequest) error
}

func (m *mockMaintenanceRepo) Create(ctx context.Context, req *domain.MaintenanceRequest) error {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil
}

func (m *mockMaintenanceRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.MaintenanceRequest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockMaintenanceRepo) List(ctx context.Context, condominiumID uuid.UUID, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, filter, page)
	}
	return nil, errNotImplemented
}

func (m *mockMaintenanceRepo) Update(ctx context.Context, req *domain.MaintenanceRequest) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, req)
	}
	return nil
}

type mockReadingRepo struct {
	createFn func(ctx context.Context, r *domain.Reading) error
	listFn   func(ctx context.Context, condominiumID uuid.UUID, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error)
	deleteFn func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockReadingRepo) Create(ctx context.Context, r *domain.Reading) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}

func (m *mockReadingRepo) List(ctx context.Context, condominiumID uuid.UUID, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, filter, page)
	}
	return nil, errNotImplemented
}

func (m *mockReadingRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockEmployeeRepo struct {
	createFn  func(ctx context.Context, e *domain.Employee) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Employee, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Employee, error)
	updateFn  func(ctx context.Context, e *domain.Employee) error
	deleteFn  func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	return nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Employee, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockEmployeeRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Employee, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, page)
	}
	return nil, errNotImplemented
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, e)
	}
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockMarketRepo struct {
	createProductFn func(ctx context.Context, p *domain.Product) error
	getProductFn    func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Product, error)
	listProductsFn  func(ctx context.Context, condominiumID uuid.UUID, onlyActive bool, page domain.Page) ([]*domain.Product, error)
	updateProductFn func(ctx context.Context, p *domain.Product) error
	deleteProductFn func(ctx context.Context, condominiumID, id uuid.UUID) error
	createSaleFn    func(ctx context.Context, s *domain.Sale) error
	listSalesFn     func(ctx context.Context, condominiumID uuid.UUID, buyerID *uuid.UUID, page domain.Page) ([]*domain.Sale, error)
}

func (m *mockMarketRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	if m.createProductFn != nil {
		return m.createProductFn(ctx, p)
	}
	return nil
}

func (m *mockMarketRepo) GetProduct(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockMarketRepo) ListProducts(ctx context.Context, condominiumID uuid.UUID, onlyActive bool, page domain.Page) ([]*domain.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx, condominiumID, onlyActive, page)
	}
	return nil, errNotImplemented
}

func (m *mockMarketRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if m.updateProductFn != nil {
		return m.updateProductFn(ctx, p)
	}
	return nil
}

func (m *mockMarketRepo) DeleteProduct(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteProductFn != nil {
		return m.deleteProductFn(ctx, condominiumID, id)
	}
	return nil
}

func (m *mockMarketRepo) CreateSale(ctx context.Context, s *domain.Sale) error {
	if m.createSaleFn != nil {
		return m.createSaleFn(ctx, s)
	}
	return nil
}

func (m *mockMarketRepo) ListSales(ctx context.Context, condominiumID uuid.UUID, buyerID *uuid.UUID, page domain.Page) ([]*domain.Sale, error) {
	if m.listSalesFn != nil {
		return m.listSalesFn(ctx, condominiumID, buyerID, page)
	}
	return nil, errNotImplemented
}

type mockTeamRepo struct {
	createFn  func(ctx context.Context, t *domain.Team) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Team, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Team, error)
	updateFn  func(ctx context.Context, t *domain.Team) error
	deleteFn  func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockTeamRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, page)
	}
	return nil, errNotImplemented
}

func (m *mockTeamRepo) Update(ctx context.Context, t *domain.Team) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, t)
	}
	return nil
}

func (m *mockTeamRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockProcessRepo struct {
	createFn  func(ctx context.Context, p *domain.Process) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Process, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error)
	updateFn  func(ctx context.Context, p *domain.Process) error
	deleteFn  func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockProcessRepo) Create(ctx context.Context, p *domain.Process) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProcessRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Process, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockProcessRepo) List(ctx context.Context, condominiumID uuid.UUID, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, teamID, page)
	}
	return nil, errNotImplemented
}

func (m *mockProcessRepo) Update(ctx context.Context, p *domain.Process) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProcessRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockActivityRepo struct {
	createFn  func(ctx context.Context, a *domain.ActivityList) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.ActivityList, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.ActivityList, error)
	updateFn  func(ctx context.Context, a *domain.ActivityList) error
	deleteFn  func(ctx context.Context, condominiumID, id uuid.UUID) error
	listDueFn func(ctx context.Context, now time.Time, limit int) ([]*domain.ActivityList, error)
	markRunFn func(ctx context.Context, id uuid.UUID, ranAt time.Time, next *time.Time) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a *domain.ActivityList) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.ActivityList, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockActivityRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.ActivityList, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, page)
	}
	return nil, errNotImplemented
}

func (m *mockActivityRepo) Update(ctx context.Context, a *domain.ActivityList) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, a)
	}
	return nil
}

func (m *mockActivityRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

func (m *mockActivityRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.ActivityList, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, now, limit)
	}
	return nil, errNotImplemented
}

func (m *mockActivityRepo) MarkRun(ctx context.Context, id uuid.UUID, ranAt time.Time, next *time.Time) error {
	if m.markRunFn != nil {
		return m.markRunFn(ctx, id, ranAt, next)
	}
	return nil
}

type mockAnnouncementRepo struct {
	createFn  func(ctx context.Context, a *domain.Announcement) error
	getByIDFn func(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Announcement, error)
	listFn    func(ctx context.Context, condominiumID uuid.UUID, now time.Time, includeExpired bool, page domain.Page) ([]*domain.Announcement, error)
	updateFn  func(ctx context.Context, a *domain.Announcement) error
	deleteFn  func(ctx context.Context, condominiumID, id uuid.UUID) error
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Announcement, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, condominiumID, id)
	}
	return nil, errNotImplemented
}

func (m *mockAnnouncementRepo) List(ctx context.Context, condominiumID uuid.UUID, now time.Time, includeExpired bool, page domain.Page) ([]*domain.Announcement, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, now, includeExpired, page)
	}
	return nil, errNotImplemented
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, a *domain.Announcement) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, a)
	}
	return nil
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, condominiumID, id)
	}
	return nil
}

type mockNotificationRepo struct {
	createManyFn func(ctx context.Context, ns []*domain.Notification) error
	listFn       func(ctx context.Context, condominiumID, userID uuid.UUID, unreadOnly bool, page domain.Page) ([]*domain.Notification, error)
	markReadFn   func(ctx context.Context, condominiumID, userID, id uuid.UUID, at time.Time) error
}

func (m *mockNotificationRepo) CreateMany(ctx context.Context, ns []*domain.Notification) error {
	if m.createManyFn != nil {
		return m.createManyFn(ctx, ns)
	}
	return nil
}

func (m *mockNotificationRepo) List(ctx context.Context, condominiumID, userID uuid.UUID, unreadOnly bool, page domain.Page) ([]*domain.Notification, error) {
	if m.listFn != nil {
		return m.listFn(ctx, condominiumID, userID, unreadOnly, page)
	}
	return nil, errNotImplemented
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, condominiumID, userID, id uuid.UUID, at time.Time) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, condominiumID, userID, id, at)
	}
	return nil
}

type mockNotificationPublisher struct {
	publishFn func(ctx context.Context, userIDs []uuid.UUID, payload []byte) error
}

func (m *mockNotificationPublisher) Publish(ctx context.Context, userIDs []uuid.UUID, payload []byte) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, userIDs, payload)
	}
	return nil
}
