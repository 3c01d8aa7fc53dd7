package handlers

import (
	"context"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseIdentity models.Identity
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastParseToken = token
	return m.parseIdentity, m.parseErr
}

type mockTasks struct {
	createTask models.Task
	createErr  error
	listResp   []models.Task
	listErr    error
	updateTask models.Task
	updateErr  error
	deleteTask models.Task
	deleteErr  error

	lastCreateCaller int
	lastCreateInput  service.TaskInput
	lastListCaller   int
	lastListFilter   service.TaskFilter
	lastUpdateCaller int
	lastUpdateTaskID int
	lastUpdateInput  service.TaskInput
	lastDeleteCaller int
	lastDeleteTaskID int
}

func (m *mockTasks) Create(ctx context.Context, callerID int, in service.TaskInput) (models.Task, error) {
	m.lastCreateCaller = callerID
	m.lastCreateInput = in
	return m.createTask, m.createErr
}
func (m *mockTasks) List(ctx context.Context, callerID int, f service.TaskFilter) ([]models.Task, error) {
	m.lastListCaller = callerID
	m.lastListFilter = f
	return m.listResp, m.listErr
}
func (m *mockTasks) Update(ctx context.Context, callerID, taskID int, in service.TaskInput) (models.Task, error) {
	m.lastUpdateCaller = callerID
	m.lastUpdateTaskID = taskID
	m.lastUpdateInput = in
	return m.updateTask, m.updateErr
}
func (m *mockTasks) Delete(ctx context.Context, callerID, taskID int) (models.Task, error) {
	m.lastDeleteCaller = callerID
	m.lastDeleteTaskID = taskID
	return m.deleteTask, m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
