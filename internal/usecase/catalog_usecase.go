package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"catalog_web/internal/clients"
	"catalog_web/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrClosed          = errors.New("catalog view has been closed")
	ErrNothingToSubmit = errors.New("nothing to submit")
	ErrAlreadyLoaded   = errors.New("categories were already requested")
)

const (
	successDuration      = 3 * time.Second
	errorDuration        = 4 * time.Second
	productErrorDuration = 6 * time.Second

	checkLogsHint = "Check the logs for details."
)

// CatalogUseCase is the view state container: it owns the state of one
// catalog page session and the three remote operations that change it.
type CatalogUseCase interface {
	// Mount starts the one-shot category load in the background. The returned
	// channel is closed once the load settles.
	Mount() <-chan struct{}
	LoadCategories(ctx context.Context) error

	SetCategoryInput(name string)
	SetProductInputs(name, categoryID string)
	CreateCategory(ctx context.Context) error
	CreateProduct(ctx context.Context) error

	DismissNotification(id uuid.UUID) bool
	Snapshot() domain.ViewState

	// Close ends the session. In-flight calls are cancelled and any result
	// that settles afterwards is discarded.
	Close()
}

type Option func(*catalogUseCase)

// WithClock overrides the time source used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(uc *catalogUseCase) {
		uc.now = now
	}
}

type catalogUseCase struct {
	client clients.InventoryClient
	log    *logrus.Logger
	now    func() time.Time

	mu     sync.Mutex
	state  domain.ViewState
	closed bool

	mountOnce sync.Once
	mounted   chan struct{}

	lifetime context.Context
	cancel   context.CancelFunc
}

func NewCatalogUseCase(client clients.InventoryClient, logger *logrus.Logger, opts ...Option) CatalogUseCase {
	lifetime, cancel := context.WithCancel(context.Background())
	uc := &catalogUseCase{
		client:   client,
		log:      logger,
		now:      time.Now,
		state:    domain.NewViewState(),
		mounted:  make(chan struct{}),
		lifetime: lifetime,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *catalogUseCase) Mount() <-chan struct{} {
	uc.mountOnce.Do(func() {
		go func() {
			defer close(uc.mounted)
			if err := uc.LoadCategories(uc.lifetime); err != nil {
				uc.log.Debugf("Use Case: Category load finished with error: %v", err)
			}
		}()
	})
	return uc.mounted
}

// scope ties an operation to the session lifetime instead of the caller's
// cancellation, keeping the caller's values.
func (uc *catalogUseCase) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(uc.lifetime, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

func (uc *catalogUseCase) LoadCategories(ctx context.Context) error {
	uc.mu.Lock()
	if uc.closed {
		uc.mu.Unlock()
		return ErrClosed
	}
	if uc.state.LoadPhase != domain.PhaseIdle {
		uc.mu.Unlock()
		return ErrAlreadyLoaded
	}
	uc.state.Loading = true
	uc.state.LoadPhase = domain.PhaseLoading
	// Categories created while the request is in flight land past this index.
	base := len(uc.state.Categories)
	uc.mu.Unlock()

	uc.log.Info("Use Case: Loading categories")
	opCtx, done := uc.scope(ctx)
	defer done()

	var (
		list domain.CategoryList
		err  error
	)
	defer func() {
		// Loading is cleared on every exit path, including a panicking client.
		uc.mu.Lock()
		if !uc.closed {
			uc.state.Loading = false
		}
		uc.mu.Unlock()
	}()
	list, err = uc.client.ListCategories(opCtx)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closed {
		uc.log.Debug("Use Case: Discarding category list that settled after close")
		return ErrClosed
	}
	uc.state.Loading = false

	if err != nil {
		uc.log.Errorf("Use Case: Failed to load categories: %v", err)
		uc.state.LoadPhase = domain.PhaseEmptyOnError
		uc.notifyLocked(domain.StatusError, "Failed to load categories.", "Try again later.", errorDuration)
		return fmt.Errorf("could not load categories: %w", err)
	}

	created := uc.state.Categories[base:]
	uc.state.Categories = append(append([]domain.Category{}, list.Categories...), created...)
	uc.state.LoadPhase = domain.PhasePopulated
	uc.log.Infof("Use Case: Loaded %d categories (%s shape), kept %d created during load", len(list.Categories), list.Shape, len(created))
	return nil
}

func (uc *catalogUseCase) SetCategoryInput(name string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.closed {
		uc.state.CategoryName = name
	}
}

func (uc *catalogUseCase) SetProductInputs(name, categoryID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.closed {
		uc.state.ProductName = name
		uc.state.ProductCategory = categoryID
	}
}

func (uc *catalogUseCase) CreateCategory(ctx context.Context) error {
	uc.mu.Lock()
	if uc.closed {
		uc.mu.Unlock()
		return ErrClosed
	}
	name := strings.TrimSpace(uc.state.CategoryName)
	uc.mu.Unlock()

	if name == "" {
		return ErrNothingToSubmit
	}

	uc.log.Infof("Use Case: Attempting to create category '%s'", name)
	opCtx, done := uc.scope(ctx)
	defer done()
	created, err := uc.client.CreateCategory(opCtx, name)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closed {
		uc.log.Debugf("Use Case: Discarding category '%s' result that settled after close", name)
		return ErrClosed
	}

	if err != nil {
		uc.log.Errorf("Use Case: Failed to create category '%s': %v", name, err)
		uc.notifyLocked(domain.StatusError, "Failed to add category.", checkLogsHint, errorDuration)
		return err
	}

	uc.state.Categories = append(uc.state.Categories, *created)
	uc.state.CategoryName = ""
	uc.notifyLocked(domain.StatusSuccess, "Category added!", "", successDuration)
	uc.log.Infof("Use Case: Category '%s' created with ID %s", created.Name, created.ID)
	return nil
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context) error {
	uc.mu.Lock()
	if uc.closed {
		uc.mu.Unlock()
		return ErrClosed
	}
	name := strings.TrimSpace(uc.state.ProductName)
	categoryID := domain.ID(strings.TrimSpace(uc.state.ProductCategory))
	uc.mu.Unlock()

	if name == "" || categoryID == "" {
		return ErrNothingToSubmit
	}

	uc.log.WithField("category", categoryID).Infof("Use Case: Attempting to create product '%s'", name)
	opCtx, done := uc.scope(ctx)
	defer done()
	created, err := uc.client.CreateProduct(opCtx, name, categoryID)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closed {
		uc.log.Debugf("Use Case: Discarding product '%s' result that settled after close", name)
		return ErrClosed
	}

	if err != nil {
		uc.log.Errorf("Use Case: Failed to create product '%s': %v", name, err)
		description := checkLogsHint
		if status, ok := clients.StatusCodeOf(err); ok {
			description = fmt.Sprintf("Status %d", status)
		}
		if body := clients.ResponseBodyOf(err); len(body) > 0 {
			uc.log.Errorf("Use Case: Response data: %s", string(body))
		}
		uc.notifyLocked(domain.StatusError, "Failed to add product.", description, productErrorDuration)
		return err
	}

	uc.state.Products = append(uc.state.Products, *created)
	uc.state.ProductName = ""
	uc.state.ProductCategory = ""
	uc.notifyLocked(domain.StatusSuccess, "Product added!", "", successDuration)
	uc.log.Infof("Use Case: Product '%s' created with ID %s", created.Name, created.ID)
	return nil
}

func (uc *catalogUseCase) DismissNotification(id uuid.UUID) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i, n := range uc.state.Notifications {
		if n.ID == id && n.Closable {
			uc.state.Notifications = append(uc.state.Notifications[:i:i], uc.state.Notifications[i+1:]...)
			return true
		}
	}
	return false
}

func (uc *catalogUseCase) Snapshot() domain.ViewState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state.Clone()
}

func (uc *catalogUseCase) Close() {
	uc.mu.Lock()
	uc.closed = true
	uc.mu.Unlock()
	uc.cancel()
	uc.log.Info("Use Case: Catalog view closed")
}

// notifyLocked appends a notification and drops expired ones. Callers hold mu.
func (uc *catalogUseCase) notifyLocked(status domain.NotificationStatus, title, description string, d time.Duration) {
	now := uc.now()
	kept := uc.state.Notifications[:0:0]
	for _, n := range uc.state.Notifications {
		if n.Active(now) {
			kept = append(kept, n)
		}
	}
	uc.state.Notifications = append(kept, domain.Notification{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		Duration:    d,
		Closable:    true,
		CreatedAt:   now,
	})
}
