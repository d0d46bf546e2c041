package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"menuboard/model"

	"gorm.io/gorm"
)

// MenuStore persists menus for the reference API.
type MenuStore interface {
	List(ctx context.Context) ([]model.Menu, error)
	Create(ctx context.Context, menu *model.Menu) error
	CreateBatch(ctx context.Context, menus []model.Menu) error
}

// GormMenuStore keeps menus in PostgreSQL.
type GormMenuStore struct {
	DB *gorm.DB
}

func NewGormMenuStore(db *gorm.DB) *GormMenuStore {
	return &GormMenuStore{DB: db}
}

func (s *GormMenuStore) List(ctx context.Context) ([]model.Menu, error) {
	menus := []model.Menu{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (s *GormMenuStore) Create(ctx context.Context, menu *model.Menu) error {
	return s.DB.WithContext(ctx).Create(menu).Error
}

// CreateBatch inserts all menus in one transaction.
func (s *GormMenuStore) CreateBatch(ctx context.Context, menus []model.Menu) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&menus).Error
	})
}

// MemoryMenuStore keeps menus in process memory. It backs the API when no
// database is configured.
type MemoryMenuStore struct {
	mu     sync.RWMutex
	nextID uint
	menus  map[uint]model.Menu
}

func NewMemoryMenuStore() *MemoryMenuStore {
	return &MemoryMenuStore{nextID: 1, menus: make(map[uint]model.Menu)}
}

func (s *MemoryMenuStore) List(ctx context.Context) ([]model.Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	menus := make([]model.Menu, 0, len(s.menus))
	for _, m := range s.menus {
		menus = append(menus, m)
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].ID < menus[j].ID })
	return menus, nil
}

func (s *MemoryMenuStore) Create(ctx context.Context, menu *model.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(menu)
	return nil
}

func (s *MemoryMenuStore) CreateBatch(ctx context.Context, menus []model.Menu) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range menus {
		s.insertLocked(&menus[i])
	}
	return nil
}

func (s *MemoryMenuStore) insertLocked(menu *model.Menu) {
	now := time.Now()
	menu.ID = s.nextID
	menu.CreatedAt = now
	menu.UpdatedAt = now
	s.nextID++
	s.menus[menu.ID] = *menu
}
