package store

import (
	"MotifFinderSampler/backend/go/internal/config"
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Registry 分配并解析对象引用。
type Registry interface {
	Reserve(ctx context.Context, workspace, name, typ string, meta map[string]string) (models.ObjectInfo, error)
	Lookup(ctx context.Context, ref models.ObjectRef) (models.ObjectInfo, error)
}

type objectDocument struct {
	Ref  string            `bson:"_id"`
	Info models.ObjectInfo `bson:"info"`
	Data interface{}       `bson:"data"`
}

type storedDocument struct {
	Ref  string            `bson:"_id"`
	Info models.ObjectInfo `bson:"info"`
	Data bson.Raw          `bson:"data"`
}

// WorkspaceStore 把对象数据按类型写入不同的 MongoDB 集合，对象引用由 Registry 分配。
type WorkspaceStore struct {
	registry    Registry
	db          *mongo.Database
	collections map[string]string // 对象类型 -> 集合名
}

// NewWorkspaceStore 创建 WorkspaceStore。collections 把对象类型映射到集合名。
func NewWorkspaceStore(registry Registry, db *mongo.Database, collections map[string]string) *WorkspaceStore {
	return &WorkspaceStore{registry: registry, db: db, collections: collections}
}

// Collections 返回配置中各对象类型对应的集合名。
func Collections(cfg *config.SamplerConfig) map[string]string {
	return map[string]string{
		models.SequenceSetType: cfg.SequenceSetColl,
		models.MotifSetType:    cfg.MotifSetColl,
		models.ReportType:      cfg.ReportColl,
	}
}

func (s *WorkspaceStore) collection(typ string) (*mongo.Collection, error) {
	name, ok := s.collections[typ]
	if !ok {
		return nil, fmt.Errorf("no collection configured for type %s", typ)
	}
	return s.db.Collection(name), nil
}

// SaveObject 分配新版本并保存 data，返回对象信息。
func (s *WorkspaceStore) SaveObject(ctx context.Context, workspace, name, typ string, data interface{}) (models.ObjectInfo, error) {
	coll, err := s.collection(typ)
	if err != nil {
		return models.ObjectInfo{}, err
	}
	info, err := s.registry.Reserve(ctx, workspace, name, typ, nil)
	if err != nil {
		return models.ObjectInfo{}, fmt.Errorf("reserve object %s: %w", name, err)
	}
	doc := objectDocument{Ref: info.Ref(), Info: info, Data: data}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return models.ObjectInfo{}, fmt.Errorf("save object %s: %w", info.Ref(), err)
	}
	return info, nil
}

// GetObject 读取 ref 对应的对象并解码到 out。
// 引用先经注册表确认存在且类型为 typ，未注册或类型不符时返回 ErrNotFound。
func (s *WorkspaceStore) GetObject(ctx context.Context, typ, ref string, out interface{}) (models.ObjectInfo, error) {
	coll, err := s.collection(typ)
	if err != nil {
		return models.ObjectInfo{}, err
	}
	parsed, err := models.ParseObjectRef(ref)
	if err != nil {
		return models.ObjectInfo{}, err
	}
	info, err := s.registry.Lookup(ctx, parsed)
	if err != nil {
		return models.ObjectInfo{}, err
	}
	if info.Type != typ {
		return models.ObjectInfo{}, fmt.Errorf("%s is a %s, not a %s: %w", ref, info.Type, typ, ErrNotFound)
	}

	var doc storedDocument
	err = coll.FindOne(ctx, bson.M{"_id": parsed.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ObjectInfo{}, fmt.Errorf("%s %s: %w", typ, ref, ErrNotFound)
	}
	if err != nil {
		return models.ObjectInfo{}, err
	}
	if err := bson.Unmarshal(doc.Data, out); err != nil {
		return models.ObjectInfo{}, fmt.Errorf("decode %s: %w", ref, err)
	}
	return info, nil
}
