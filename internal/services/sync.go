package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

// SyncService fingerprints the shared group snapshot on a schedule and pushes
// groups_changed when it differs from the last run. Clients without a
// websocket can poll Version instead.
type SyncService struct {
	groups    *repository.GroupRepo
	publisher Publisher
	logger    *zap.Logger
	interval  time.Duration
	cron      *cron.Cron

	mu      sync.RWMutex
	version string
	count   int
}

func NewSyncService(groups *repository.GroupRepo, publisher Publisher, interval time.Duration, logger *zap.Logger) *SyncService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if interval < time.Second {
		interval = time.Second
	}
	return &SyncService{
		groups:    groups,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
		cron:      cron.New(),
	}
}

func (s *SyncService) Start() error {
	if _, err := s.Check(context.Background()); err != nil {
		s.logger.Warn("initial group snapshot check failed", zap.Error(err))
	}

	spec := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		if _, err := s.Check(ctx); err != nil {
			s.logger.Warn("group snapshot check failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}

	s.cron.Start()
	s.logger.Info("group sync started", zap.Duration("interval", s.interval))
	return nil
}

func (s *SyncService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("group sync stopped")
}

// Check fingerprints the current snapshot. changed is false on the first
// run, which only records the baseline.
func (s *SyncService) Check(ctx context.Context) (bool, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return false, err
	}
	version, err := Fingerprint(groups)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	previous := s.version
	s.version = version
	s.count = len(groups)
	s.mu.Unlock()

	if previous == "" || previous == version {
		return false, nil
	}

	event := models.GroupsChangedEvent{Version: version, GroupCount: len(groups)}
	if err := s.publisher.Broadcast(ctx, models.WSMessage{Type: models.WSGroupsChanged, Payload: event}); err != nil {
		s.logger.Warn("failed to broadcast groups_changed", zap.Error(err))
	}
	s.logger.Debug("group snapshot changed", zap.String("version", version), zap.Int("groups", len(groups)))
	return true, nil
}

func (s *SyncService) Version() models.GroupsChangedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.GroupsChangedEvent{Version: s.version, GroupCount: s.count}
}

// Fingerprint is the hex sha256 of the snapshot's JSON encoding.
func Fingerprint(groups []models.StudyGroup) (string, error) {
	data, err := json.Marshal(groups)
	if err != nil {
		return "", fmt.Errorf("failed to encode groups: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
