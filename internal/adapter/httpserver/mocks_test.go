package httpserver

import (
	"context"
	"errors"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/payroll"
	"github.com/google/uuid"
)

var errNotImplemented = errors.New("not implemented")

type mockAppService struct {
	loginFn                 func(ctx context.Context, email, password string) (*app.LoginResult, error)
	authenticateFn          func(ctx context.Context, p *auth.Principal) (*domain.User, error)
	meFn                    func(ctx context.Context, condominiumID, userID uuid.UUID) (*domain.User, error)
	listCondominiumsFn      func(ctx context.Context, page domain.Page) ([]*domain.Condominium, error)
	getCondominiumFn        func(ctx context.Context, id uuid.UUID) (*domain.Condominium, error)
	createCondominiumFn     func(ctx context.Context, in app.CondominiumInput) (*domain.Condominium, error)
	updateCondominiumFn     func(ctx context.Context, id uuid.UUID, in app.CondominiumInput) (*domain.Condominium, error)
	listUsersFn             func(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.User, error)
	getUserFn               func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.User, error)
	createUserFn            func(ctx context.Context, actor app.Actor, in app.UserInput) (*domain.User, error)
	updateUserFn            func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.UserUpdate) (*domain.User, error)
	deleteUserFn            func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	permissionsFn           func(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error)
	moduleEnabledFn         func(ctx context.Context, condominiumID uuid.UUID, module domain.Module) (bool, error)
	setPermissionsFn        func(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) (domain.ModulePermissions, error)
	listEquipmentFn         func(ctx context.Context, actor app.Actor, page domain.Page) ([]app.EquipmentView, error)
	getEquipmentFn          func(ctx context.Context, actor app.Actor, id uuid.UUID) (app.EquipmentView, error)
	createEquipmentFn       func(ctx context.Context, actor app.Actor, in app.EquipmentInput) (app.EquipmentView, error)
	updateEquipmentFn       func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.EquipmentInput) (app.EquipmentView, error)
	deleteEquipmentFn       func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	createMaintenanceFn     func(ctx context.Context, actor app.Actor, in app.MaintenanceInput) (*domain.MaintenanceRequest, error)
	listMaintenanceFn       func(ctx context.Context, actor app.Actor, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error)
	getMaintenanceFn        func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.MaintenanceRequest, error)
	updateMaintenanceFn     func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.MaintenanceUpdate) (*domain.MaintenanceRequest, error)
	transitionMaintenanceFn func(ctx context.Context, actor app.Actor, id uuid.UUID, next domain.MaintenanceStatus) (*domain.MaintenanceRequest, error)
	createReadingFn         func(ctx context.Context, actor app.Actor, in app.ReadingInput) (*domain.Reading, error)
	listReadingsFn          func(ctx context.Context, actor app.Actor, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error)
	deleteReadingFn         func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	consumptionFn           func(ctx context.Context, actor app.Actor, filter domain.ReadingFilter) (*app.ConsumptionSummary, error)
	listEmployeesFn         func(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Employee, error)
	getEmployeeFn           func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Employee, error)
	createEmployeeFn        func(ctx context.Context, actor app.Actor, in app.EmployeeInput) (*domain.Employee, error)
	updateEmployeeFn        func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.EmployeeInput) (*domain.Employee, error)
	deleteEmployeeFn        func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	payslipFn               func(ctx context.Context, actor app.Actor, id uuid.UUID) (payroll.Payslip, error)
	liabilitiesFn           func(ctx context.Context, actor app.Actor, id uuid.UUID) (payroll.Liabilities, error)
	severanceFn             func(ctx context.Context, actor app.Actor, id uuid.UUID, req app.SeveranceRequest) (payroll.Severance, error)
	calculatePayrollFn      func(gross float64, dependents int) (payroll.Payslip, error)
	listProductsFn          func(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Product, error)
	getProductFn            func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Product, error)
	createProductFn         func(ctx context.Context, actor app.Actor, in app.ProductInput) (*domain.Product, error)
	updateProductFn         func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ProductInput) (*domain.Product, error)
	deleteProductFn         func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	createSaleFn            func(ctx context.Context, actor app.Actor, in app.SaleInput) (*domain.Sale, error)
	listSalesFn             func(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Sale, error)
	listTeamsFn             func(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Team, error)
	getTeamFn               func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Team, error)
	createTeamFn            func(ctx context.Context, actor app.Actor, in app.TeamInput) (*domain.Team, error)
	updateTeamFn            func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.TeamInput) (*domain.Team, error)
	deleteTeamFn            func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	listProcessesFn         func(ctx context.Context, actor app.Actor, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error)
	getProcessFn            func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Process, error)
	createProcessFn         func(ctx context.Context, actor app.Actor, in app.ProcessInput) (*domain.Process, error)
	updateProcessFn         func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ProcessInput) (*domain.Process, error)
	deleteProcessFn         func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	listActivitiesFn        func(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.ActivityList, error)
	getActivityFn           func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.ActivityList, error)
	createActivityFn        func(ctx context.Context, actor app.Actor, in app.ActivityInput) (*domain.ActivityList, error)
	updateActivityFn        func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ActivityInput) (*domain.ActivityList, error)
	deleteActivityFn        func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	listAnnouncementsFn     func(ctx context.Context, actor app.Actor, includeExpired bool, page domain.Page) ([]*domain.Announcement, error)
	getAnnouncementFn       func(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Announcement, error)
	createAnnouncementFn    func(ctx context.Context, actor app.Actor, in app.AnnouncementInput) (*domain.Announcement, error)
	updateAnnouncementFn    func(ctx context.Context, actor app.Actor, id uuid.UUID, in app.AnnouncementInput) (*domain.Announcement, error)
	deleteAnnouncementFn    func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	listNotificationsFn     func(ctx context.Context, actor app.Actor, unreadOnly bool, page domain.Page) ([]*domain.Notification, error)
	markNotificationReadFn  func(ctx context.Context, actor app.Actor, id uuid.UUID) error
	maintenanceReportFn     func(ctx context.Context, actor app.Actor, filter domain.MaintenanceFilter) ([]byte, error)
	readingsReportFn        func(ctx context.Context, actor app.Actor, filter domain.ReadingFilter) ([]byte, error)
}

func (m *mockAppService) Login(ctx context.Context, email, password string) (*app.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, errNotImplemented
}

// Authenticate defaults to an active account matching the claims so that
// tests not about account state can authenticate with any token.
func (m *mockAppService) Authenticate(ctx context.Context, p *auth.Principal) (*domain.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, p)
	}
	return &domain.User{ID: p.UserID, CondominiumID: p.CondominiumID, Role: p.Role, Active: true}, nil
}

func (m *mockAppService) Me(ctx context.Context, condominiumID, userID uuid.UUID) (*domain.User, error) {
	if m.meFn != nil {
		return m.meFn(ctx, condominiumID, userID)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListCondominiums(ctx context.Context, page domain.Page) ([]*domain.Condominium, error) {
	if m.listCondominiumsFn != nil {
		return m.listCondominiumsFn(ctx, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetCondominium(ctx context.Context, id uuid.UUID) (*domain.Condominium, error) {
	if m.getCondominiumFn != nil {
		return m.getCondominiumFn(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateCondominium(ctx context.Context, in app.CondominiumInput) (*domain.Condominium, error) {
	if m.createCondominiumFn != nil {
		return m.createCondominiumFn(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateCondominium(ctx context.Context, id uuid.UUID, in app.CondominiumInput) (*domain.Condominium, error) {
	if m.updateCondominiumFn != nil {
		return m.updateCondominiumFn(ctx, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListUsers(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetUser(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateUser(ctx context.Context, actor app.Actor, in app.UserInput) (*domain.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateUser(ctx context.Context, actor app.Actor, id uuid.UUID, in app.UserUpdate) (*domain.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteUser(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) Permissions(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error) {
	if m.permissionsFn != nil {
		return m.permissionsFn(ctx, condominiumID)
	}
	return domain.ModulePermissions{}.Complete(), nil
}

func (m *mockAppService) ModuleEnabled(ctx context.Context, condominiumID uuid.UUID, module domain.Module) (bool, error) {
	if m.moduleEnabledFn != nil {
		return m.moduleEnabledFn(ctx, condominiumID, module)
	}
	return true, nil
}

func (m *mockAppService) SetPermissions(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) (domain.ModulePermissions, error) {
	if m.setPermissionsFn != nil {
		return m.setPermissionsFn(ctx, condominiumID, perms)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListEquipment(ctx context.Context, actor app.Actor, page domain.Page) ([]app.EquipmentView, error) {
	if m.listEquipmentFn != nil {
		return m.listEquipmentFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetEquipment(ctx context.Context, actor app.Actor, id uuid.UUID) (app.EquipmentView, error) {
	if m.getEquipmentFn != nil {
		return m.getEquipmentFn(ctx, actor, id)
	}
	return app.EquipmentView{}, errNotImplemented
}

func (m *mockAppService) CreateEquipment(ctx context.Context, actor app.Actor, in app.EquipmentInput) (app.EquipmentView, error) {
	if m.createEquipmentFn != nil {
		return m.createEquipmentFn(ctx, actor, in)
	}
	return app.EquipmentView{}, errNotImplemented
}

func (m *mockAppService) UpdateEquipment(ctx context.Context, actor app.Actor, id uuid.UUID, in app.EquipmentInput) (app.EquipmentView, error) {
	if m.updateEquipmentFn != nil {
		return m.updateEquipmentFn(ctx, actor, id, in)
	}
	return app.EquipmentView{}, errNotImplemented
}

func (m *mockAppService) DeleteEquipment(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteEquipmentFn != nil {
		return m.deleteEquipmentFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) CreateMaintenance(ctx context.Context, actor app.Actor, in app.MaintenanceInput) (*domain.MaintenanceRequest, error) {
	if m.createMaintenanceFn != nil {
		return m.createMaintenanceFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListMaintenance(ctx context.Context, actor app.Actor, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error) {
	if m.listMaintenanceFn != nil {
		return m.listMaintenanceFn(ctx, actor, filter, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetMaintenance(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.MaintenanceRequest, error) {
	if m.getMaintenanceFn != nil {
		return m.getMaintenanceFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateMaintenance(ctx context.Context, actor app.Actor, id uuid.UUID, in app.MaintenanceUpdate) (*domain.MaintenanceRequest, error) {
	if m.updateMaintenanceFn != nil {
		return m.updateMaintenanceFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) TransitionMaintenance(ctx context.Context, actor app.Actor, id uuid.UUID, next domain.MaintenanceStatus) (*domain.MaintenanceRequest, error) {
	if m.transitionMaintenanceFn != nil {
		return m.transitionMaintenanceFn(ctx, actor, id, next)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateReading(ctx context.Context, actor app.Actor, in app.ReadingInput) (*domain.Reading, error) {
	if m.createReadingFn != nil {
		return m.createReadingFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListReadings(ctx context.Context, actor app.Actor, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error) {
	if m.listReadingsFn != nil {
		return m.listReadingsFn(ctx, actor, filter, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteReading(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteReadingFn != nil {
		return m.deleteReadingFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) Consumption(ctx context.Context, actor app.Actor, filter domain.ReadingFilter) (*app.ConsumptionSummary, error) {
	if m.consumptionFn != nil {
		return m.consumptionFn(ctx, actor, filter)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListEmployees(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Employee, error) {
	if m.listEmployeesFn != nil {
		return m.listEmployeesFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetEmployee(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Employee, error) {
	if m.getEmployeeFn != nil {
		return m.getEmployeeFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateEmployee(ctx context.Context, actor app.Actor, in app.EmployeeInput) (*domain.Employee, error) {
	if m.createEmployeeFn != nil {
		return m.createEmployeeFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateEmployee(ctx context.Context, actor app.Actor, id uuid.UUID, in app.EmployeeInput) (*domain.Employee, error) {
	if m.updateEmployeeFn != nil {
		return m.updateEmployeeFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteEmployee(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteEmployeeFn != nil {
		return m.deleteEmployeeFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) Payslip(ctx context.Context, actor app.Actor, id uuid.UUID) (payroll.Payslip, error) {
	if m.payslipFn != nil {
		return m.payslipFn(ctx, actor, id)
	}
	return payroll.Payslip{}, errNotImplemented
}

func (m *mockAppService) Liabilities(ctx context.Context, actor app.Actor, id uuid.UUID) (payroll.Liabilities, error) {
	if m.liabilitiesFn != nil {
		return m.liabilitiesFn(ctx, actor, id)
	}
	return payroll.Liabilities{}, errNotImplemented
}

func (m *mockAppService) Severance(ctx context.Context, actor app.Actor, id uuid.UUID, req app.SeveranceRequest) (payroll.Severance, error) {
	if m.severanceFn != nil {
		return m.severanceFn(ctx, actor, id, req)
	}
	return payroll.Severance{}, errNotImplemented
}

func (m *mockAppService) CalculatePayroll(gross float64, dependents int) (payroll.Payslip, error) {
	if m.calculatePayrollFn != nil {
		return m.calculatePayrollFn(gross, dependents)
	}
	return payroll.Payslip{}, errNotImplemented
}

func (m *mockAppService) ListProducts(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetProduct(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateProduct(ctx context.Context, actor app.Actor, in app.ProductInput) (*domain.Product, error) {
	if m.createProductFn != nil {
		return m.createProductFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateProduct(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ProductInput) (*domain.Product, error) {
	if m.updateProductFn != nil {
		return m.updateProductFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteProduct(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteProductFn != nil {
		return m.deleteProductFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) CreateSale(ctx context.Context, actor app.Actor, in app.SaleInput) (*domain.Sale, error) {
	if m.createSaleFn != nil {
		return m.createSaleFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListSales(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Sale, error) {
	if m.listSalesFn != nil {
		return m.listSalesFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListTeams(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Team, error) {
	if m.listTeamsFn != nil {
		return m.listTeamsFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetTeam(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Team, error) {
	if m.getTeamFn != nil {
		return m.getTeamFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateTeam(ctx context.Context, actor app.Actor, in app.TeamInput) (*domain.Team, error) {
	if m.createTeamFn != nil {
		return m.createTeamFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateTeam(ctx context.Context, actor app.Actor, id uuid.UUID, in app.TeamInput) (*domain.Team, error) {
	if m.updateTeamFn != nil {
		return m.updateTeamFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteTeam(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteTeamFn != nil {
		return m.deleteTeamFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) ListProcesses(ctx context.Context, actor app.Actor, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error) {
	if m.listProcessesFn != nil {
		return m.listProcessesFn(ctx, actor, teamID, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetProcess(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Process, error) {
	if m.getProcessFn != nil {
		return m.getProcessFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateProcess(ctx context.Context, actor app.Actor, in app.ProcessInput) (*domain.Process, error) {
	if m.createProcessFn != nil {
		return m.createProcessFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateProcess(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ProcessInput) (*domain.Process, error) {
	if m.updateProcessFn != nil {
		return m.updateProcessFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteProcess(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteProcessFn != nil {
		return m.deleteProcessFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) ListActivities(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.ActivityList, error) {
	if m.listActivitiesFn != nil {
		return m.listActivitiesFn(ctx, actor, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetActivity(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.ActivityList, error) {
	if m.getActivityFn != nil {
		return m.getActivityFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateActivity(ctx context.Context, actor app.Actor, in app.ActivityInput) (*domain.ActivityList, error) {
	if m.createActivityFn != nil {
		return m.createActivityFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateActivity(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ActivityInput) (*domain.ActivityList, error) {
	if m.updateActivityFn != nil {
		return m.updateActivityFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteActivity(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteActivityFn != nil {
		return m.deleteActivityFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) ListAnnouncements(ctx context.Context, actor app.Actor, includeExpired bool, page domain.Page) ([]*domain.Announcement, error) {
	if m.listAnnouncementsFn != nil {
		return m.listAnnouncementsFn(ctx, actor, includeExpired, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) GetAnnouncement(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Announcement, error) {
	if m.getAnnouncementFn != nil {
		return m.getAnnouncementFn(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) CreateAnnouncement(ctx context.Context, actor app.Actor, in app.AnnouncementInput) (*domain.Announcement, error) {
	if m.createAnnouncementFn != nil {
		return m.createAnnouncementFn(ctx, actor, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) UpdateAnnouncement(ctx context.Context, actor app.Actor, id uuid.UUID, in app.AnnouncementInput) (*domain.Announcement, error) {
	if m.updateAnnouncementFn != nil {
		return m.updateAnnouncementFn(ctx, actor, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) DeleteAnnouncement(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.deleteAnnouncementFn != nil {
		return m.deleteAnnouncementFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) ListNotifications(ctx context.Context, actor app.Actor, unreadOnly bool, page domain.Page) ([]*domain.Notification, error) {
	if m.listNotificationsFn != nil {
		return m.listNotificationsFn(ctx, actor, unreadOnly, page)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) MarkNotificationRead(ctx context.Context, actor app.Actor, id uuid.UUID) error {
	if m.markNotificationReadFn != nil {
		return m.markNotificationReadFn(ctx, actor, id)
	}
	return nil
}

func (m *mockAppService) MaintenanceReport(ctx context.Context, actor app.Actor, filter domain.MaintenanceFilter) ([]byte, error) {
	if m.maintenanceReportFn != nil {
		return m.maintenanceReportFn(ctx, actor, filter)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ReadingsReport(ctx context.Context, actor app.Actor, filter domain.ReadingFilter) ([]byte, error) {
	if m.readingsReportFn != nil {
		return m.readingsReportFn(ctx, actor, filter)
	}
	return nil, errNotImplemented
}
