package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/contextguard/internal/adapters/driven/ai"
	"github.com/custodia-labs/contextguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
	"github.com/custodia-labs/contextguard/internal/core/services"
	"github.com/custodia-labs/contextguard/internal/postprocessors"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
	"github.com/custodia-labs/contextguard/internal/postprocessors/citation"
)

// mockCheckService implements driving.CheckService for CLI tests.
type mockCheckService struct {
	docs     []domain.Document
	capacity int
	issues   []domain.Issue
	state    domain.CheckState
	chunks   string
	located  map[string]int
	runs     int
	runErr   error
	onRun    func(m *mockCheckService)
	cleared  int
}

func newMockCheckService() *mockCheckService {
	return &mockCheckService{
		capacity: domain.DefaultMaxDocuments,
		state:    domain.IdleState(),
		located:  make(map[string]int),
	}
}

func (m *mockCheckService) AddDocument(doc domain.Document) bool {
	if len(m.docs) >= m.capacity {
		return false
	}
	m.docs = append(m.docs, doc)
	return true
}

func (m *mockCheckService) RemoveDocument(id string) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return
		}
	}
}

func (m *mockCheckService) Documents() []domain.Document {
	return append([]domain.Document(nil), m.docs...)
}

func (m *mockCheckService) RemainingSlots() int { return m.capacity - len(m.docs) }

func (m *mockCheckService) Run(_ context.Context) error {
	m.runs++
	if m.runErr != nil {
		return m.runErr
	}
	if m.onRun != nil {
		m.onRun(m)
		return nil
	}
	m.state = domain.CompletedState()
	return nil
}

func (m *mockCheckService) Issues() []domain.Issue   { return m.issues }
func (m *mockCheckService) State() domain.CheckState { return m.state }
func (m *mockCheckService) Chunks() string           { return m.chunks }

func (m *mockCheckService) Locate(quote, title string) int {
	return m.located[title+"|"+quote]
}

func (m *mockCheckService) Clear() {
	m.cleared++
	m.docs = nil
	m.issues = nil
	m.state = domain.IdleState()
}

// mockImportService adds one document per path to a mockCheckService.
// Paths containing "missing" are skipped as not found.
type mockImportService struct {
	check *mockCheckService
	calls [][]string
	err   error
}

func (m *mockImportService) ImportFiles(_ context.Context, paths []string) (*driving.ImportResult, error) {
	m.calls = append(m.calls, paths)
	if m.err != nil {
		return nil, m.err
	}

	result := &driving.ImportResult{Skipped: make(map[string]error)}
	for _, p := range paths {
		if strings.Contains(p, "missing") {
			result.Skipped[p] = domain.ErrNotFound
			continue
		}
		title := filepath.Base(p)
		doc := domain.Document{ID: "id-" + title, Title: title, URI: p, Content: "text of " + title}
		if !m.check.AddDocument(doc) {
			result.Skipped[p] = domain.ErrCapacityReached
			continue
		}
		result.Added = append(result.Added, title)
	}
	return result, nil
}

func (m *mockImportService) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockReportService renders a marker string for the requested format.
type mockReportService struct {
	formats   []domain.ExportFormat
	exported  []domain.ExportFormat
	path      string
	formatErr error
	exportErr error
}

func (m *mockReportService) Format(format domain.ExportFormat) (string, error) {
	m.formats = append(m.formats, format)
	if m.formatErr != nil {
		return "", m.formatErr
	}
	return "report as " + string(format), nil
}

func (m *mockReportService) Export(_ context.Context, format domain.ExportFormat) (string, error) {
	m.exported = append(m.exported, format)
	if m.exportErr != nil {
		return "", m.exportErr
	}
	return m.path, nil
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMBaseURL(baseURL string) error {
	m.settings.LLM.BaseURL = baseURL
	return nil
}

func (m *mockSettingsService) SetMaxDocuments(n int) error {
	if n < 1 {
		return domain.ErrInvalidInput
	}
	m.settings.Check.MaxDocuments = n
	return nil
}

func (m *mockSettingsService) SetExportDir(dir string) error {
	m.settings.Export.Dir = dir
	return nil
}

func (m *mockSettingsService) SetExportFormat(format domain.ExportFormat) error {
	m.settings.Export.Format = format
	return nil
}

func (m *mockSettingsService) Validate() error                 { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateLLMConfig() error        { return m.pingErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	check    *mockCheckService
	imp      *mockImportService
	report   *mockReportService
	settings *mockSettingsService
}

var mocks testServices

// newDemoCheckService builds a real session backed by the demo detector.
func newDemoCheckService() driving.CheckService {
	return services.NewCheckService(
		memory.NewDocumentStore(domain.DefaultMaxDocuments),
		postprocessors.NewPipeline(chunker.New()),
		ai.NewDemoDetector(),
		citation.NewLocator(domain.DefaultPrefixLength),
	)
}

// setupTestServices installs fresh mocks and returns a cleanup function
// that restores the previous services and flag values.
func setupTestServices() func() {
	oldCheck, oldImport, oldReport, oldSettings := checkService, importService, reportService, settingsService
	oldDemo, oldFormat := newDemoSession, defaultExportFormat

	check := newMockCheckService()
	mocks = testServices{
		check:    check,
		imp:      &mockImportService{check: check},
		report:   &mockReportService{path: "/tmp/ContextGuard_Report.txt"},
		settings: newMockSettingsService(),
	}

	SetServices(Services{
		Check:        mocks.check,
		Import:       mocks.imp,
		Report:       mocks.report,
		Settings:     mocks.settings,
		DemoSession:  newDemoCheckService,
		ExportFormat: domain.ExportFormatText,
	})

	return func() {
		checkService, importService, reportService, settingsService = oldCheck, oldImport, oldReport, oldSettings
		newDemoSession, defaultExportFormat = oldDemo, oldFormat

		checkFormat, checkJSON, checkExport, checkWatch = "", false, false, false
		locateTitle = ""
		demoFormat = "text"

		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}
