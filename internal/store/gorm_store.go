package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eventvault/pkg/domain"
)

// GormStore implements Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a Postgres connection and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	return OpenGormStore(postgres.Open(dsn))
}

// OpenGormStore opens the given dialector and runs auto-migrations.
// Tests use it to back the store with in-memory sqlite.
func OpenGormStore(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &FileModel{}, &EventModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Users() UserRepository   { return (*gormUsers)(s) }
func (s *GormStore) Files() FileRepository   { return (*gormFiles)(s) }
func (s *GormStore) Events() EventRepository { return (*gormEvents)(s) }

const active = string(domain.StatusActive)

// users

type gormUsers GormStore

func (s *gormUsers) FindActiveByID(id int64) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("id = ? AND status = ?", id, active).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *gormUsers) FindActiveByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("username = ? AND status = ?", username, active).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *gormUsers) FindAllActive() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Where("status = ?", active).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(models))
	for _, m := range models {
		res = append(res, userFromModel(m))
	}
	return res, nil
}

func (s *gormUsers) ExistsActiveByUsernameExcludingID(username string, id int64) (bool, error) {
	var count int64
	err := s.db.Model(&UserModel{}).
		Where("username = ? AND status = ? AND id <> ?", username, active, id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormUsers) Save(u domain.User) (domain.User, error) {
	model := userToModel(u)
	if err := s.db.Save(&model).Error; err != nil {
		return domain.User{}, err
	}
	return userFromModel(model), nil
}

func (s *gormUsers) SoftDeleteByID(id int64) (bool, error) {
	tx := s.db.Model(&UserModel{}).
		Where("id = ? AND status = ?", id, active).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected > 0, tx.Error
}

func (s *gormUsers) SoftDeleteAll() (int64, error) {
	tx := s.db.Model(&UserModel{}).
		Where("status = ?", active).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected, tx.Error
}

// files

type gormFiles GormStore

func (s *gormFiles) FindActiveByID(id int64) (domain.File, bool, error) {
	var model FileModel
	err := s.db.Where("id = ? AND status = ?", id, active).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.File{}, false, nil
		}
		return domain.File{}, false, err
	}
	return fileFromModel(model), true, nil
}

func (s *gormFiles) FindAllActive() ([]domain.File, error) {
	var models []FileModel
	if err := s.db.Where("status = ?", active).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.File, 0, len(models))
	for _, m := range models {
		res = append(res, fileFromModel(m))
	}
	return res, nil
}

func (s *gormFiles) FindAllActiveByUserID(userID int64) ([]domain.File, error) {
	var models []FileModel
	err := s.db.
		Joins("JOIN events ON events.file_id = files.id AND events.status = ?", active).
		Where("events.user_id = ? AND files.status = ?", userID, active).
		Order("files.id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.File, 0, len(models))
	for _, m := range models {
		res = append(res, fileFromModel(m))
	}
	return res, nil
}

func (s *gormFiles) GetIDByFilename(filename string) (int64, bool, error) {
	var model FileModel
	// Escape LIKE metacharacters so a % or _ in the filename matches
	// literally instead of acting as a wildcard.
	pattern := "%/" + likeEscaper.Replace(filename)
	err := s.db.Where(`status = ? AND location LIKE ? ESCAPE '\'`, active, pattern).
		Order("id ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return model.ID, true, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *gormFiles) Save(f domain.File) (domain.File, error) {
	model := fileToModel(f)
	if err := s.db.Save(&model).Error; err != nil {
		return domain.File{}, err
	}
	return fileFromModel(model), nil
}

func (s *gormFiles) SoftDeleteByID(id int64) (bool, error) {
	tx := s.db.Model(&FileModel{}).
		Where("id = ? AND status = ?", id, active).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected > 0, tx.Error
}

func (s *gormFiles) SoftDeleteAllByUserID(userID int64) (int64, error) {
	tx := s.db.Model(&FileModel{}).
		Where("status = ? AND id IN (?)", active,
			s.db.Model(&EventModel{}).Select("file_id").
				Where("user_id = ? AND status = ?", userID, active)).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected, tx.Error
}

func (s *gormFiles) SoftDeleteAll() (int64, error) {
	tx := s.db.Model(&FileModel{}).
		Where("status = ?", active).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected, tx.Error
}

// events

type gormEvents GormStore

func (s *gormEvents) FindActiveByID(id int64) (domain.Event, bool, error) {
	var model EventModel
	err := s.db.Where("id = ? AND status = ?", id, active).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Event{}, false, nil
		}
		return domain.Event{}, false, err
	}
	return eventFromModel(model), true, nil
}

func (s *gormEvents) FindAllActive() ([]domain.Event, error) {
	var models []EventModel
	if err := s.db.Where("status = ?", active).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Event, 0, len(models))
	for _, m := range models {
		res = append(res, eventFromModel(m))
	}
	return res, nil
}

func (s *gormEvents) FindAllActiveByUserID(userID int64) ([]domain.Event, error) {
	var models []EventModel
	err := s.db.Where("user_id = ? AND status = ?", userID, active).
		Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Event, 0, len(models))
	for _, m := range models {
		res = append(res, eventFromModel(m))
	}
	return res, nil
}

func (s *gormEvents) FindActiveByFileIDAndUserID(fileID, userID int64) (domain.Event, bool, error) {
	var model EventModel
	err := s.db.Where("file_id = ? AND user_id = ? AND status = ?", fileID, userID, active).
		Order("id ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Event{}, false, nil
		}
		return domain.Event{}, false, err
	}
	return eventFromModel(model), true, nil
}

func (s *gormEvents) Save(e domain.Event) (domain.Event, error) {
	model := eventToModel(e)
	if err := s.db.Save(&model).Error; err != nil {
		return domain.Event{}, err
	}
	return eventFromModel(model), nil
}

func (s *gormEvents) SoftDeleteByID(id int64) (bool, error) {
	tx := s.db.Model(&EventModel{}).
		Where("id = ? AND status = ?", id, active).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected > 0, tx.Error
}

func (s *gormEvents) SoftDeleteAll() (int64, error) {
	tx := s.db.Model(&EventModel{}).
		Where("status = ?", active).
		Update("status", string(domain.StatusDeleted))
	return tx.RowsAffected, tx.Error
}

// model mapping

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Enabled:      u.Enabled,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Status:       string(u.Status),
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Enabled:      m.Enabled,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Status:       domain.RecordStatus(m.Status),
	}
}

func fileToModel(f domain.File) FileModel {
	return FileModel{ID: f.ID, Location: f.Location, Status: string(f.Status)}
}

func fileFromModel(m FileModel) domain.File {
	return domain.File{ID: m.ID, Location: m.Location, Status: domain.RecordStatus(m.Status)}
}

func eventToModel(e domain.Event) EventModel {
	return EventModel{ID: e.ID, UserID: e.UserID, FileID: e.FileID, Status: string(e.Status)}
}

func eventFromModel(m EventModel) domain.Event {
	return domain.Event{ID: m.ID, UserID: m.UserID, FileID: m.FileID, Status: domain.RecordStatus(m.Status)}
}
