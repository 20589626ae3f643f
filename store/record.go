package store

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/menutree/menu"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// itemRecord is the DynamoDB shape of a menu item.
type itemRecord struct {
	ID            string            `dynamodbav:"id"`
	EntityRef     string            `dynamodbav:"entity_ref"`
	WorkspaceID   string            `dynamodbav:"workspace_id"`
	WorkspaceName string            `dynamodbav:"workspace_name"`
	ParentID      string            `dynamodbav:"parent_id,omitempty"`
	Key           string            `dynamodbav:"key"`
	Name          string            `dynamodbav:"name"`
	Description   string            `dynamodbav:"description"`
	URL           string            `dynamodbav:"url"`
	ApplicationID string            `dynamodbav:"application_id"`
	Position      int               `dynamodbav:"position"`
	Disabled      bool              `dynamodbav:"disabled"`
	WorkspaceExit bool              `dynamodbav:"workspace_exit"`
	Badge         string            `dynamodbav:"badge"`
	Scope         string            `dynamodbav:"scope"`
	Permission    string            `dynamodbav:"permission"`
	I18n          map[string]string `dynamodbav:"i18n,omitempty"`
	Version       int64             `dynamodbav:"version"`
	CreatedAt     string            `dynamodbav:"created_at"`
	UpdatedAt     string            `dynamodbav:"updated_at"`
}

// workspaceRecord is the DynamoDB shape of a workspace.
type workspaceRecord struct {
	ID   string `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
}

// managedFields are written by the store itself and never taken from the
// caller's SET clause on update.
var managedFields = map[string]struct{}{
	"id":             {},
	"entity_ref":     {},
	"workspace_id":   {},
	"workspace_name": {},
	"parent_id":      {},
	"version":        {},
	"created_at":     {},
	"updated_at":     {},
	"ttl":            {},
	generationAttr:   {},
}

// ItemRef returns the type-qualified reference for a menu item.
func ItemRef(id string) string {
	return "menu_item#" + id
}

func itemKey(id string) PK {
	return PK{"id": &types.AttributeValueMemberS{Value: id}}
}

func toRecord(item *menu.MenuItem) itemRecord {
	return itemRecord{
		ID:            item.ID,
		EntityRef:     ItemRef(item.ID),
		WorkspaceID:   item.WorkspaceID,
		WorkspaceName: item.WorkspaceName,
		ParentID:      item.ParentID,
		Key:           item.Key,
		Name:          item.Name,
		Description:   item.Description,
		URL:           item.URL,
		ApplicationID: item.ApplicationID,
		Position:      item.Position,
		Disabled:      item.Disabled,
		WorkspaceExit: item.WorkspaceExit,
		Badge:         item.Badge,
		Scope:         item.Scope,
		Permission:    item.Permission,
		I18n:          item.I18n,
		Version:       item.Version,
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func fromRecord(r itemRecord) *menu.MenuItem {
	return &menu.MenuItem{
		ID:            r.ID,
		WorkspaceID:   r.WorkspaceID,
		WorkspaceName: r.WorkspaceName,
		ParentID:      r.ParentID,
		Attributes: menu.Attributes{
			Key:           r.Key,
			Name:          r.Name,
			Description:   r.Description,
			URL:           r.URL,
			ApplicationID: r.ApplicationID,
			Position:      r.Position,
			Disabled:      r.Disabled,
			WorkspaceExit: r.WorkspaceExit,
			Badge:         r.Badge,
			Scope:         r.Scope,
			Permission:    r.Permission,
			I18n:          r.I18n,
		},
		Version:   r.Version,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

// unmarshalItem converts a DynamoDB item to a menu item.
func unmarshalItem(raw map[string]types.AttributeValue) (*menu.MenuItem, error) {
	var r itemRecord
	if err := attributevalue.UnmarshalMap(raw, &r); err != nil {
		return nil, err
	}
	return fromRecord(r), nil
}

// marshalItem converts a menu item to a DynamoDB item.
func marshalItem(item *menu.MenuItem) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(toRecord(item))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
