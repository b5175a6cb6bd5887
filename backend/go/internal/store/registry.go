package store

import (
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkspaceRow 是工作空间表，名称唯一。
type WorkspaceRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;uniqueIndex"`
	CreatedAt time.Time
}

func (WorkspaceRow) TableName() string { return "workspaces" }

// ObjectVersionRow 记录对象的每一个已保存版本。
type ObjectVersionRow struct {
	ID          uint   `gorm:"primaryKey"`
	WorkspaceID int64  `gorm:"uniqueIndex:idx_object_version,priority:1;index:idx_object_name,priority:1"`
	ObjectID    int64  `gorm:"uniqueIndex:idx_object_version,priority:2"`
	Version     int64  `gorm:"uniqueIndex:idx_object_version,priority:3"`
	Name        string `gorm:"size:255;index:idx_object_name,priority:2"`
	Type        string `gorm:"size:128"`
	Meta        datatypes.JSON
	SavedAt     time.Time
}

func (ObjectVersionRow) TableName() string { return "object_versions" }

// RegistryModels 是 mysql.GetDB 需要迁移的表。
func RegistryModels() []interface{} {
	return []interface{}{&WorkspaceRow{}, &ObjectVersionRow{}}
}

// GormRegistry 负责分配工作空间内的对象 ID 和版本号。
// 同名对象再次保存时 ID 不变、版本递增。
type GormRegistry struct {
	db *gorm.DB
}

// NewGormRegistry 创建基于 gorm 的对象注册表。
func NewGormRegistry(db *gorm.DB) *GormRegistry {
	return &GormRegistry{db: db}
}

// Reserve 在 workspace 中为 name 分配下一个版本并写入注册表。
func (r *GormRegistry) Reserve(ctx context.Context, workspace, name, typ string, meta map[string]string) (models.ObjectInfo, error) {
	if workspace == "" || name == "" {
		return models.ObjectInfo{}, fmt.Errorf("workspace and object name are required")
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return models.ObjectInfo{}, err
	}

	var info models.ObjectInfo
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&WorkspaceRow{Name: workspace}).Error; err != nil {
			return fmt.Errorf("create workspace %q: %w", workspace, err)
		}
		// 锁住工作空间行，同一工作空间内的 ID 分配串行进行。
		var ws WorkspaceRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", workspace).
			First(&ws).Error; err != nil {
			return fmt.Errorf("lock workspace %q: %w", workspace, err)
		}

		var latest ObjectVersionRow
		err := tx.Where("workspace_id = ? AND name = ?", ws.ID, name).
			Order("version DESC").
			First(&latest).Error

		row := ObjectVersionRow{
			WorkspaceID: ws.ID,
			Name:        name,
			Type:        typ,
			Meta:        datatypes.JSON(metaJSON),
			SavedAt:     time.Now().UTC(),
		}
		switch {
		case err == nil:
			row.ObjectID = latest.ObjectID
			row.Version = latest.Version + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			var maxID int64
			if err := tx.Model(&ObjectVersionRow{}).
				Where("workspace_id = ?", ws.ID).
				Select("COALESCE(MAX(object_id), 0)").
				Scan(&maxID).Error; err != nil {
				return err
			}
			row.ObjectID = maxID + 1
			row.Version = 1
		default:
			return err
		}

		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("register %s/%s: %w", workspace, name, err)
		}
		info = rowToInfo(row, workspace)
		return nil
	})
	return info, err
}

// Lookup 根据引用返回对象信息。
func (r *GormRegistry) Lookup(ctx context.Context, ref models.ObjectRef) (models.ObjectInfo, error) {
	var row ObjectVersionRow
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND object_id = ? AND version = ?", ref.WorkspaceID, ref.ObjectID, ref.Version).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ObjectInfo{}, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return models.ObjectInfo{}, err
	}

	var ws WorkspaceRow
	if err := r.db.WithContext(ctx).First(&ws, row.WorkspaceID).Error; err != nil {
		return models.ObjectInfo{}, err
	}
	return rowToInfo(row, ws.Name), nil
}

func rowToInfo(row ObjectVersionRow, workspace string) models.ObjectInfo {
	return models.ObjectInfo{
		WorkspaceID: row.WorkspaceID,
		ObjectID:    row.ObjectID,
		Version:     row.Version,
		Name:        row.Name,
		Type:        row.Type,
		Workspace:   workspace,
		SavedAt:     row.SavedAt,
	}
}
