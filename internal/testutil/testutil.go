package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/priya/course-platform/internal/api"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/config"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository"
	repoPostgres "github.com/priya/course-platform/internal/repository/postgres"
	"github.com/priya/course-platform/internal/service"
	"github.com/priya/course-platform/internal/token"
	"github.com/priya/course-platform/internal/ws"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_course_platform"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Order{},
		&domain.Layout{},
		&domain.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"notifications",
		"orders",
		"layouts",
		"courses",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// NewTestCache starts a miniredis instance and returns a cache store backed
// by it. The server is torn down with the test.
func NewTestCache(t *testing.T) (cache.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return cache.NewRedisStore(client), mr
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		Origin:             "*",
		ActivationSecret:   "test-activation-secret",
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenExpire:  5 * time.Minute,
		RefreshTokenExpire: 3 * 24 * time.Hour,
	}
}

// SentMail records one delivery made through the fake mailer.
type SentMail struct {
	To       string
	Subject  string
	Template string
	Data     any
}

// FakeMailer records deliveries instead of talking to an SMTP server.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *FakeMailer) Send(to, subject, templateName string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Template: templateName, Data: data})
	return nil
}

// SentTo returns the deliveries addressed to the given recipient.
func (m *FakeMailer) SentTo(to string) []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMail
	for _, s := range m.Sent {
		if s.To == to {
			out = append(out, s)
		}
	}
	return out
}

// FakeAssets hands out deterministic keys and URLs.
type FakeAssets struct{}

func (FakeAssets) PresignUpload(ctx context.Context, folder string) (string, string, error) {
	key := folder + "/test-object"
	return key, "https://assets.test/upload/" + key, nil
}

func (FakeAssets) PublicURL(key string) string {
	return "https://assets.test/" + key
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Redis    *miniredis.Miniredis
	Repos    *repository.Repositories
	Services *service.Services
	Sessions *cache.SessionStore
	Catalog  *cache.CatalogCache
	Issuer   *token.Issuer
	Mailer   *FakeMailer
	Hub      *ws.Hub
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	store, mr := NewTestCache(t)
	sessions := cache.NewSessionStore(store)
	catalog := cache.NewCatalogCache(store)

	issuer := token.NewIssuer(
		cfg.ActivationSecret,
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpire,
		cfg.RefreshTokenExpire,
	)

	repos := repoPostgres.NewRepositories(testDB.DB)
	mailer := &FakeMailer{}
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	services := service.NewServices(repos, cfg, issuer, sessions, catalog, mailer, FakeAssets{}, hub)
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Redis:    mr,
		Repos:    repos,
		Services: services,
		Sessions: sessions,
		Catalog:  catalog,
		Issuer:   issuer,
		Mailer:   mailer,
		Hub:      hub,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the WebSocket URL with token
func (ts *TestServer) WebSocketURL(token string) string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/ws?token=%s", wsURL, token)
}
