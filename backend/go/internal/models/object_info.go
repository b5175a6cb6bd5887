package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ObjectInfo 描述了工作空间中的一个已保存对象。
type ObjectInfo struct {
	WorkspaceID int64     `json:"wsid" bson:"wsid"`
	ObjectID    int64     `json:"objid" bson:"objid"`
	Version     int64     `json:"version" bson:"version"`
	Name        string    `json:"name" bson:"name"`
	Type        string    `json:"type" bson:"type"`
	Workspace   string    `json:"workspace" bson:"workspace"`
	SavedAt     time.Time `json:"saved_at" bson:"saved_at"`
}

// Ref 返回 "wsid/objid/version" 形式的对象引用。
func (o ObjectInfo) Ref() string {
	return fmt.Sprintf("%d/%d/%d", o.WorkspaceID, o.ObjectID, o.Version)
}

// ObjectRef 是解析后的对象引用。
type ObjectRef struct {
	WorkspaceID int64
	ObjectID    int64
	Version     int64
}

// String 返回引用的规范形式。
func (r ObjectRef) String() string {
	return fmt.Sprintf("%d/%d/%d", r.WorkspaceID, r.ObjectID, r.Version)
}

// ParseObjectRef 解析 "wsid/objid/version" 形式的引用。
func ParseObjectRef(ref string) (ObjectRef, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 3 {
		return ObjectRef{}, fmt.Errorf("invalid object reference %q: want wsid/objid/version", ref)
	}
	var nums [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n <= 0 {
			return ObjectRef{}, fmt.Errorf("invalid object reference %q: %q is not a positive integer", ref, p)
		}
		nums[i] = n
	}
	return ObjectRef{WorkspaceID: nums[0], ObjectID: nums[1], Version: nums[2]}, nil
}
