package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/yourname/sleepsense/internal"
)

// FileStorage keeps every daily input in memory and writes them to a single
// JSON file, debouncing writes so bursts of edits cost one disk write.
type FileStorage struct {
	inputs    map[string]*internal.DailyInput   // userID|date -> input
	userIndex map[string][]*internal.DailyInput // userID -> inputs, newest date first
	mu        sync.RWMutex
	path      string
	saveChan  chan struct{}
	shutdown  chan struct{}
	done      chan struct{}
	saveDelay time.Duration
	closeOnce sync.Once
	logger    internal.Logger
}

func NewFileStorage(path string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		inputs:    make(map[string]*internal.DailyInput),
		userIndex: make(map[string][]*internal.DailyInput),
		path:      path,
		saveChan:  make(chan struct{}, 1),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		saveDelay: 500 * time.Millisecond,
		logger:    logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load daily inputs: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func key(userID, date string) string {
	return userID + "|" + date
}

func (s *FileStorage) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var inputs []*internal.DailyInput
	if err := json.NewDecoder(file).Decode(&inputs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range inputs {
		k := key(in.UserID, in.Date)
		if _, dup := s.inputs[k]; dup {
			s.logger.Warnf("storage: skipping duplicate daily input for %s", k)
			continue
		}
		s.inputs[k] = in
		s.userIndex[in.UserID] = append(s.userIndex[in.UserID], in)
	}

	for userID := range s.userIndex {
		sortNewestFirst(s.userIndex[userID])
	}
	return nil
}

func sortNewestFirst(inputs []*internal.DailyInput) {
	sort.SliceStable(inputs, func(i, j int) bool {
		return inputs[i].Date > inputs[j].Date
	})
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	s.mu.RLock()
	inputs := make([]internal.DailyInput, 0, len(s.inputs))
	for _, in := range s.inputs {
		inputs = append(inputs, cloneInput(*in))
	}
	s.mu.RUnlock()

	sort.Slice(inputs, func(i, j int) bool {
		if inputs[i].UserID != inputs[j].UserID {
			return inputs[i].UserID < inputs[j].UserID
		}
		return inputs[i].Date > inputs[j].Date
	})
	return atomicWriteFileJSON(s.path, inputs)
}

func (s *FileStorage) saveWorker() {
	defer close(s.done)
	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving daily inputs: %v", err)
			}
		case <-s.shutdown:
			return
		}
	}
}

func (s *FileStorage) signalSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

// Close stops the save worker and writes pending data synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdown)
		<-s.done
		err = s.save()
	})
	return err
}

func (s *FileStorage) CreateDailyInput(ctx context.Context, input *internal.DailyInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(input.UserID, input.Date)
	if _, exists := s.inputs[k]; exists {
		return ErrDuplicateDailyInput
	}
	stored := cloneInput(*input)
	s.inputs[k] = &stored
	inputs := append(s.userIndex[input.UserID], &stored)
	sortNewestFirst(inputs)
	s.userIndex[input.UserID] = inputs
	s.signalSave()
	return nil
}

func (s *FileStorage) UpdateDailyInput(ctx context.Context, input *internal.DailyInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.inputs[key(input.UserID, input.Date)]
	if !ok {
		return ErrDailyInputNotFound
	}
	id, created := existing.ID, existing.CreatedAt
	*existing = cloneInput(*input)
	existing.ID, existing.CreatedAt = id, created
	s.signalSave()
	return nil
}

func (s *FileStorage) GetDailyInput(ctx context.Context, userID, date string) (*internal.DailyInput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.inputs[key(userID, date)]
	if !ok {
		return nil, ErrDailyInputNotFound
	}
	out := cloneInput(*in)
	return &out, nil
}

func (s *FileStorage) ListDailyInputs(ctx context.Context, userID string) ([]internal.DailyInput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ptrs := s.userIndex[userID]
	inputs := make([]internal.DailyInput, len(ptrs))
	for i, in := range ptrs {
		inputs[i] = cloneInput(*in)
	}
	return inputs, nil
}

// cloneInput copies the slices and pointers so callers cannot mutate stored
// state.
func cloneInput(in internal.DailyInput) internal.DailyInput {
	out := in
	if in.Disturbances != nil {
		out.Disturbances = append([]internal.Disturbance(nil), in.Disturbances...)
	}
	if in.Naps != nil {
		out.Naps = append([]internal.Nap(nil), in.Naps...)
	}
	if in.CustomLatencyMinutes != nil {
		v := *in.CustomLatencyMinutes
		out.CustomLatencyMinutes = &v
	}
	if in.RoomTempC != nil {
		v := *in.RoomTempC
		out.RoomTempC = &v
	}
	return out
}

var _ DailyInputRepository = (*FileStorage)(nil)
