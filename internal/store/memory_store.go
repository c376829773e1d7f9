package store

import (
	"path"
	"sort"
	"sync"

	"eventvault/pkg/domain"
)

// MemoryStore keeps all records in-process. It mirrors the gorm store's
// contracts exactly, including soft-delete visibility, and backs the
// handler and service tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	files  map[int64]domain.File
	events map[int64]domain.Event
	nextID int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[int64]domain.User),
		files:  make(map[int64]domain.File),
		events: make(map[int64]domain.Event),
	}
}

func (m *MemoryStore) Users() UserRepository   { return (*memoryUsers)(m) }
func (m *MemoryStore) Files() FileRepository   { return (*memoryFiles)(m) }
func (m *MemoryStore) Events() EventRepository { return (*memoryEvents)(m) }

// assignID must be called with the write lock held.
func (m *MemoryStore) assignID() int64 {
	m.nextID++
	return m.nextID
}

// users

type memoryUsers MemoryStore

func (m *memoryUsers) FindActiveByID(id int64) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok || u.Status != domain.StatusActive {
		return domain.User{}, false, nil
	}
	return u, true, nil
}

func (m *memoryUsers) FindActiveByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Status == domain.StatusActive && u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (m *memoryUsers) FindAllActive() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Status == domain.StatusActive {
			res = append(res, u)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memoryUsers) ExistsActiveByUsernameExcludingID(username string, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Status == domain.StatusActive && u.Username == username && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) Save(u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = (*MemoryStore)(m).assignID()
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryUsers) SoftDeleteByID(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Status != domain.StatusActive {
		return false, nil
	}
	u.Status = domain.StatusDeleted
	m.users[id] = u
	return true, nil
}

func (m *memoryUsers) SoftDeleteAll() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, u := range m.users {
		if u.Status == domain.StatusActive {
			u.Status = domain.StatusDeleted
			m.users[id] = u
			n++
		}
	}
	return n, nil
}

// files

type memoryFiles MemoryStore

func (m *memoryFiles) FindActiveByID(id int64) (domain.File, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[id]
	if !ok || f.Status != domain.StatusActive {
		return domain.File{}, false, nil
	}
	return f, true, nil
}

func (m *memoryFiles) FindAllActive() ([]domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.File, 0, len(m.files))
	for _, f := range m.files {
		if f.Status == domain.StatusActive {
			res = append(res, f)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memoryFiles) FindAllActiveByUserID(userID int64) ([]domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.File
	for _, e := range m.events {
		if e.Status != domain.StatusActive || e.UserID != userID {
			continue
		}
		if f, ok := m.files[e.FileID]; ok && f.Status == domain.StatusActive {
			res = append(res, f)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memoryFiles) GetIDByFilename(filename string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bestID := int64(0)
	for _, f := range m.files {
		if f.Status != domain.StatusActive || path.Base(f.Location) != filename {
			continue
		}
		if bestID == 0 || f.ID < bestID {
			bestID = f.ID
		}
	}
	return bestID, bestID != 0, nil
}

func (m *memoryFiles) Save(f domain.File) (domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == 0 {
		f.ID = (*MemoryStore)(m).assignID()
	}
	m.files[f.ID] = f
	return f, nil
}

func (m *memoryFiles) SoftDeleteByID(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.Status != domain.StatusActive {
		return false, nil
	}
	f.Status = domain.StatusDeleted
	m.files[id] = f
	return true, nil
}

func (m *memoryFiles) SoftDeleteAllByUserID(userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.events {
		if e.Status != domain.StatusActive || e.UserID != userID {
			continue
		}
		if f, ok := m.files[e.FileID]; ok && f.Status == domain.StatusActive {
			f.Status = domain.StatusDeleted
			m.files[f.ID] = f
			n++
		}
	}
	return n, nil
}

func (m *memoryFiles) SoftDeleteAll() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, f := range m.files {
		if f.Status == domain.StatusActive {
			f.Status = domain.StatusDeleted
			m.files[id] = f
			n++
		}
	}
	return n, nil
}

// events

type memoryEvents MemoryStore

func (m *memoryEvents) FindActiveByID(id int64) (domain.Event, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	if !ok || e.Status != domain.StatusActive {
		return domain.Event{}, false, nil
	}
	return e, true, nil
}

func (m *memoryEvents) FindAllActive() ([]domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		if e.Status == domain.StatusActive {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memoryEvents) FindAllActiveByUserID(userID int64) ([]domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Event
	for _, e := range m.events {
		if e.Status == domain.StatusActive && e.UserID == userID {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memoryEvents) FindActiveByFileIDAndUserID(fileID, userID int64) (domain.Event, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	best := domain.Event{}
	for _, e := range m.events {
		if e.Status != domain.StatusActive || e.FileID != fileID || e.UserID != userID {
			continue
		}
		if best.ID == 0 || e.ID < best.ID {
			best = e
		}
	}
	return best, best.ID != 0, nil
}

func (m *memoryEvents) Save(e domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = (*MemoryStore)(m).assignID()
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *memoryEvents) SoftDeleteByID(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.Status != domain.StatusActive {
		return false, nil
	}
	e.Status = domain.StatusDeleted
	m.events[id] = e
	return true, nil
}

func (m *memoryEvents) SoftDeleteAll() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.events {
		if e.Status == domain.StatusActive {
			e.Status = domain.StatusDeleted
			m.events[id] = e
			n++
		}
	}
	return n, nil
}
