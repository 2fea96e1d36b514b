package catalog

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"food-translator/internal/core/flavor"
	"food-translator/internal/core/translate"
	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"
	"food-translator/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ErrNotLoaded 尚未載入任何快照
var ErrNotLoaded = errors.New("catalog not loaded")

// Snapshot 一份完整建立後不再變動的詞庫與料理集合
type Snapshot struct {
	Lexicon  *flavor.Lexicon
	Universe translate.Universe
	Version  uint64
	LoadedAt time.Time
}

// NewSnapshot 由詞庫與料理資料建立快照
func NewSnapshot(lex *flavor.Lexicon, records []DishRecord) (*Snapshot, error) {
	universe, err := BuildUniverse(lex, records)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Lexicon: lex, Universe: universe, LoadedAt: time.Now()}, nil
}

// Store 持有目前的快照；重新載入時以完整的新快照原子替換
type Store struct {
	config  config.CatalogConfig
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	// 序列化 Reload，讀取端不需加鎖
	reloadMu sync.Mutex
}

// NewStore 建立並載入第一份快照
func NewStore(cfg config.CatalogConfig) (*Store, error) {
	s := &Store{config: cfg}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore 以現成快照建立 Store（不讀取檔案）
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{}
	s.publish(snap)
	return s
}

// Current 目前的快照
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Reload 重新讀取資料檔。失敗時保留原本的快照。
func (s *Store) Reload() (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	snap, err := s.load()
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("failure").Inc()
		common.LogError("Catalog reload failed",
			zap.Error(err),
			zap.String("lexicon", s.config.LexiconPath),
			zap.String("universe", s.config.UniversePath),
		)
		return nil, err
	}

	s.publish(snap)
	metrics.CatalogReloads.WithLabelValues("success").Inc()
	common.LogInfo("Catalog reloaded",
		zap.Uint64("version", snap.Version),
		zap.Int("lexicon_entries", snap.Lexicon.Len()),
		zap.Int("dishes", len(snap.Universe)),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}

func (s *Store) load() (*Snapshot, error) {
	lex, err := LoadLexicon(s.config.LexiconPath)
	if err != nil {
		return nil, err
	}
	records, err := LoadDishRecords(s.config.UniversePath)
	if err != nil {
		return nil, err
	}
	snap, err := NewSnapshot(lex, records)
	if err != nil {
		return nil, fmt.Errorf("invalid universe %s: %w", s.config.UniversePath, err)
	}
	return snap, nil
}

func (s *Store) publish(snap *Snapshot) {
	snap.Version = s.version.Add(1)
	s.current.Store(snap)
	metrics.CatalogDishes.Set(float64(len(snap.Universe)))
	metrics.CatalogLexiconEntries.Set(float64(snap.Lexicon.Len()))
}
