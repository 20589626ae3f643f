package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/menutree/internal/shard"
	"github.com/jacentio/menutree/menu"
)

const (
	// MaxTransactItems is the DynamoDB limit of actions per transaction.
	MaxTransactItems = 100

	// maxBatchGet is the DynamoDB limit of keys per BatchGetItem request.
	maxBatchGet = 100
)

// Store provides DynamoDB persistence for menu items and workspaces.
// It implements menu.Store and menu.Workspaces.
type Store struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// Config returns the validated configuration.
func (s *Store) Config() Config {
	return s.config
}

// membershipPK computes the sharded partition key for a membership record.
func (s *Store) membershipPK(workspaceID, itemID string) string {
	return shard.MembershipPK(workspaceID, itemID, s.config.NumShards)
}

// FindWorkspace returns a workspace, or menu.ErrWorkspaceNotFound if it is
// missing or deleted.
func (s *Store) FindWorkspace(ctx context.Context, id string) (*menu.Workspace, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.WorkspacesTable),
		Key:            itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil || IsDeleted(result.Item) {
		return nil, fmt.Errorf("%w: %s", menu.ErrWorkspaceNotFound, id)
	}

	var r workspaceRecord
	if err := attributevalue.UnmarshalMap(result.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}
	return &menu.Workspace{ID: r.ID, Name: r.Name}, nil
}

// PutWorkspace creates a workspace record, or renames and revives an
// existing one. The workspace keeps its current menu generation.
func (s *Store) PutWorkspace(ctx context.Context, ws menu.Workspace) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.config.WorkspacesTable),
		Key:              itemKey(ws.ID),
		UpdateExpression: aws.String("SET #name = :name REMOVE #ttl"),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
			"#ttl":  "ttl",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: ws.Name},
		},
	})
	return err
}

// DeleteWorkspace marks a workspace for deletion by setting its TTL. The
// stream handler removes its menu items.
func (s *Store) DeleteWorkspace(ctx context.Context, id string) error {
	return s.setTTL(ctx, s.config.WorkspacesTable, itemKey(id), time.Now().Unix())
}

// FindByID retrieves a menu item, returning menu.ErrNotFound if deleted,
// missing or replaced by a newer menu generation.
func (s *Store) FindByID(ctx context.Context, id string) (*menu.MenuItem, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.ItemsTable),
		Key:            itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil || IsDeleted(result.Item) {
		return nil, fmt.Errorf("%w: %s", menu.ErrNotFound, id)
	}

	item, err := unmarshalItem(result.Item)
	if err != nil {
		return nil, fmt.Errorf("unmarshal menu item: %w", err)
	}
	gens, err := s.generations(ctx, []string{item.WorkspaceID})
	if err != nil {
		return nil, err
	}
	if generationOf(result.Item) != gens[item.WorkspaceID] {
		return nil, fmt.Errorf("%w: %s", menu.ErrNotFound, id)
	}
	return item, nil
}

// FindByIDs retrieves the live items among ids, in request order.
func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]*menu.MenuItem, error) {
	ids = dedupe(ids)
	raws, err := s.fetchLive(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]*menu.MenuItem, len(raws))
	workspaceIDs := make([]string, 0, len(raws))
	for id, raw := range raws {
		item, err := unmarshalItem(raw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal menu item: %w", err)
		}
		found[id] = item
		workspaceIDs = append(workspaceIDs, item.WorkspaceID)
	}
	sort.Strings(workspaceIDs)

	gens, err := s.generations(ctx, workspaceIDs)
	if err != nil {
		return nil, err
	}

	items := make([]*menu.MenuItem, 0, len(found))
	for _, id := range ids {
		item, ok := found[id]
		if ok && generationOf(raws[id]) == gens[item.WorkspaceID] {
			items = append(items, item)
		}
	}
	return items, nil
}

// fetchLive batch-reads the raw records of ids, skipping missing and
// deleted ones.
func (s *Store) fetchLive(ctx context.Context, ids []string) (map[string]map[string]types.AttributeValue, error) {
	found := make(map[string]map[string]types.AttributeValue, len(ids))

	for _, batch := range chunk(ids, maxBatchGet) {
		keys := make([]map[string]types.AttributeValue, 0, len(batch))
		for _, id := range batch {
			keys = append(keys, itemKey(id))
		}
		request := map[string]types.KeysAndAttributes{
			s.config.ItemsTable: {Keys: keys, ConsistentRead: aws.Bool(true)},
		}

		// Keep asking until DynamoDB has served every key
		for len(request) > 0 {
			result, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: request,
			})
			if err != nil {
				return nil, err
			}
			for _, raw := range result.Responses[s.config.ItemsTable] {
				if IsDeleted(raw) {
					continue
				}
				if v, ok := raw["id"].(*types.AttributeValueMemberS); ok {
					found[v.Value] = raw
				}
			}
			request = result.UnprocessedKeys
		}
	}
	return found, nil
}

// FindByWorkspace returns every live item of a workspace, in membership order.
func (s *Store) FindByWorkspace(ctx context.Context, workspaceID string) ([]*menu.MenuItem, error) {
	ids, err := s.MemberIDs(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	items, err := s.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	live := items[:0]
	for _, item := range items {
		if item.WorkspaceID == workspaceID {
			live = append(live, item)
		}
	}
	return live, nil
}

// Create inserts items and their membership records in one transaction.
// Items are stamped with their workspace's current menu generation; the
// transaction fails if that generation changes or a guard no longer holds.
func (s *Store) Create(ctx context.Context, items []*menu.MenuItem, guards []menu.Guard) error {
	gens, err := s.generations(ctx, writeWorkspaces(items, guards))
	if err != nil {
		return err
	}
	actions := append(s.generationChecks(gens), s.guardChecks(guards, gens)...)
	checks := len(actions)
	now := time.Now().UTC()

	for _, item := range items {
		put, err := s.putActions(item, gens[item.WorkspaceID], now)
		if err != nil {
			return err
		}
		actions = append(actions, put...)
	}

	err = s.transact(ctx, actions)
	if err := mapTransactionError(err, checks, menu.ErrAlreadyExists); err != nil {
		return err
	}
	for _, item := range items {
		item.Version = 1
	}
	return nil
}

// Update writes items with optimistic locking. Each item must still have
// the version it was read with and belong to its workspace's current menu
// generation, and every guard must hold.
func (s *Store) Update(ctx context.Context, items []*menu.MenuItem, guards []menu.Guard) error {
	gens, err := s.generations(ctx, writeWorkspaces(items, guards))
	if err != nil {
		return err
	}
	actions := append(s.generationChecks(gens), s.guardChecks(guards, gens)...)
	checks := len(actions)
	now := time.Now().UTC()

	for _, item := range items {
		update, err := s.updateAction(item, gens[item.WorkspaceID], now)
		if err != nil {
			return err
		}
		actions = append(actions, types.TransactWriteItem{Update: update})
	}

	err = s.transact(ctx, actions)
	if err := mapTransactionError(err, checks, menu.ErrConcurrentModification); err != nil {
		return err
	}
	for _, item := range items {
		item.Version++
		item.UpdatedAt = now
	}
	return nil
}

// DeleteByID marks a menu item for deletion by setting its TTL. Missing or
// already deleted items are ignored.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	return s.setTTL(ctx, s.config.ItemsTable, itemKey(id), time.Now().Unix())
}

// DeleteAllByWorkspace marks every item of a workspace for deletion. Items
// are deleted in transactions of up to MaxTransactItems; a failure leaves
// earlier chunks deleted and the call can be repeated.
func (s *Store) DeleteAllByWorkspace(ctx context.Context, workspaceID string) error {
	ids, err := s.MemberIDs(ctx, workspaceID)
	if err != nil {
		return err
	}

	ttl := time.Now().Unix()
	for _, batch := range chunk(ids, MaxTransactItems) {
		actions := make([]types.TransactWriteItem, 0, len(batch))
		for _, id := range batch {
			actions = append(actions, types.TransactWriteItem{Update: s.ttlAction(id, ttl)})
		}
		if err := s.transact(ctx, actions); err != nil {
			return fmt.Errorf("delete menu items of workspace %s: %w", workspaceID, err)
		}
	}
	return nil
}

// ReplaceWorkspace swaps the menu of a workspace for items. The items are
// written under a new menu generation in transactions of up to
// MaxTransactItems actions, then the workspace is switched to that
// generation in one conditional update. Until the switch, reads keep
// returning the old menu; afterwards only the new one. If another replace
// switched first, the new items are discarded and the call fails with
// menu.ErrConcurrentModification.
func (s *Store) ReplaceWorkspace(ctx context.Context, workspaceID string, items []*menu.MenuItem) error {
	gens, err := s.generations(ctx, []string{workspaceID})
	if err != nil {
		return err
	}
	oldGen, newGen := gens[workspaceID], uuid.NewString()

	now := time.Now().UTC()
	written := make([]string, 0, len(items))
	perTransaction := MaxTransactItems / 2 // item + membership
	for start := 0; start < len(items); start += perTransaction {
		batch := items[start:min(start+perTransaction, len(items))]

		actions := make([]types.TransactWriteItem, 0, 2*len(batch))
		for _, item := range batch {
			put, err := s.putActions(item, newGen, now)
			if err != nil {
				return errors.Join(err, s.discard(ctx, written))
			}
			actions = append(actions, put...)
		}
		if err := s.transact(ctx, actions); err != nil {
			err = mapTransactionError(err, 0, menu.ErrAlreadyExists)
			return errors.Join(err, s.discard(ctx, written))
		}
		for _, item := range batch {
			written = append(written, item.ID)
		}
	}

	if err := s.switchGeneration(ctx, workspaceID, oldGen, newGen); err != nil {
		return errors.Join(err, s.discard(ctx, written))
	}
	for _, item := range items {
		item.Version = 1
	}

	if err := s.expireStale(ctx, workspaceID, newGen); err != nil {
		s.config.Logger.Warn().Err(err).
			Str("workspaceId", workspaceID).
			Msg("expire replaced menu items")
	}
	return nil
}

// MemberIDs returns the IDs listed in the membership table for a workspace.
// Deleted items may still be listed until the stream handler expires their
// membership; callers filter them by loading the items.
func (s *Store) MemberIDs(ctx context.Context, workspaceID string) ([]string, error) {
	numShards := s.config.NumShards
	if numShards < 1 {
		numShards = 1
	}

	// Fast path for single shard (default)
	if numShards == 1 {
		return s.queryMembershipShard(ctx, shard.ShardPK(workspaceID, 0))
	}

	// Multi-shard fan-out
	var mu sync.Mutex
	var all []string
	var wg sync.WaitGroup
	errs := make(chan error, numShards)

	for shardNum := 0; shardNum < numShards; shardNum++ {
		wg.Add(1)
		go func(shardNum int) {
			defer wg.Done()

			ids, err := s.queryMembershipShard(ctx, shard.ShardPK(workspaceID, shardNum))
			if err != nil {
				errs <- fmt.Errorf("shard %02x: %w", shardNum, err)
				return
			}

			mu.Lock()
			all = append(all, ids...)
			mu.Unlock()
		}(shardNum)
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	for err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(all)
	return all, nil
}

func (s *Store) queryMembershipShard(ctx context.Context, shardPK string) ([]string, error) {
	var ids []string

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                aws.String(s.config.MembershipTable),
		KeyConditionExpression:   aws.String("pk = :pk"),
		FilterExpression:         aws.String(TTLFilterExpr()),
		ConsistentRead:           aws.Bool(true),
		ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":  &types.AttributeValueMemberS{Value: shardPK},
			":now": ttlValue(time.Now().Unix()),
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if v, ok := item["item_id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
	}

	return ids, nil
}

// SetMembershipTTL sets TTL on the membership record of a menu item.
// Used by the stream handler once the item itself is marked deleted.
func (s *Store) SetMembershipTTL(ctx context.Context, workspaceID, itemID string, ttl int64) error {
	key := PK{
		"pk":      &types.AttributeValueMemberS{Value: s.membershipPK(workspaceID, itemID)},
		"item_id": &types.AttributeValueMemberS{Value: itemID},
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.config.MembershipTable),
		Key:                      key,
		UpdateExpression:         aws.String("SET #ttl = :ttl"),
		ConditionExpression:      aws.String("attribute_exists(pk) AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ttl": ttlValue(ttl),
		},
	})

	// Ignore condition failure - missing or already has TTL
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil
	}
	return err
}

// setTTL marks a record for deletion by setting its TTL.
// This also increments the version to fail concurrent updates.
func (s *Store) setTTL(ctx context.Context, table string, key PK, ttl int64) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(table),
		Key:                 key,
		UpdateExpression:    aws.String("SET #ttl = :ttl, #version = if_not_exists(#version, :zero) + :one"),
		ConditionExpression: aws.String("attribute_exists(id) AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames: map[string]string{
			"#ttl":     "ttl",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ttl":  ttlValue(ttl),
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
		},
	})

	// Ignore condition failure - missing or already deleted
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil
	}
	return err
}

// ttlAction builds a transactional TTL update for a menu item that exists.
func (s *Store) ttlAction(id string, ttl int64) *types.Update {
	return &types.Update{
		TableName:           aws.String(s.config.ItemsTable),
		Key:                 itemKey(id),
		UpdateExpression:    aws.String("SET #ttl = :ttl, #version = #version + :one"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#ttl":     "ttl",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ttl": ttlValue(ttl),
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	}
}

// guardChecks builds one condition check per guard. Guards that name a
// workspace are also pinned to its generation in gens.
func (s *Store) guardChecks(guards []menu.Guard, gens map[string]string) []types.TransactWriteItem {
	items := make([]types.TransactWriteItem, 0, len(guards))
	for _, g := range guards {
		cond := LiveVersionCondition()
		names := map[string]string{
			"#version": "version",
			"#ttl":     "ttl",
		}
		values := map[string]types.AttributeValue{
			":expected_version": &types.AttributeValueMemberN{
				Value: strconv.FormatInt(g.Version, 10),
			},
		}
		if gen, ok := gens[g.WorkspaceID]; ok && g.WorkspaceID != "" {
			cond = pinGeneration(cond, names, values, gen)
		}

		items = append(items, types.TransactWriteItem{
			ConditionCheck: &types.ConditionCheck{
				TableName:                 aws.String(s.config.ItemsTable),
				Key:                       itemKey(g.ID),
				ConditionExpression:       aws.String(cond),
				ExpressionAttributeNames:  names,
				ExpressionAttributeValues: values,
			},
		})
	}
	return items
}

// writeWorkspaces lists the workspaces a write touches.
func writeWorkspaces(items []*menu.MenuItem, guards []menu.Guard) []string {
	ids := make([]string, 0, len(items)+len(guards))
	for _, item := range items {
		ids = append(ids, item.WorkspaceID)
	}
	for _, g := range guards {
		if g.WorkspaceID != "" {
			ids = append(ids, g.WorkspaceID)
		}
	}
	return dedupe(ids)
}

// putActions builds the item put, stamped with generation gen, and its
// membership put.
func (s *Store) putActions(item *menu.MenuItem, gen string, now time.Time) ([]types.TransactWriteItem, error) {
	record := item.Clone()
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	raw, err := marshalItem(record)
	if err != nil {
		return nil, fmt.Errorf("marshal menu item: %w", err)
	}
	if gen != "" {
		raw[generationAttr] = &types.AttributeValueMemberS{Value: gen}
	}

	return []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.config.ItemsTable),
				Item:                raw,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(s.config.MembershipTable),
				Item: map[string]types.AttributeValue{
					"pk":            &types.AttributeValueMemberS{Value: s.membershipPK(item.WorkspaceID, item.ID)},
					"item_id":       &types.AttributeValueMemberS{Value: item.ID},
					"workspace_ref": &types.AttributeValueMemberS{Value: shard.WorkspaceRef(item.WorkspaceID)},
				},
			},
		},
	}, nil
}

// updateAction builds the optimistic-lock update of one item in generation gen.
func (s *Store) updateAction(item *menu.MenuItem, gen string, now time.Time) (*types.Update, error) {
	raw, err := marshalItem(item)
	if err != nil {
		return nil, fmt.Errorf("marshal menu item: %w", err)
	}

	expr, names, values := updateExpression(raw, item.ParentID, now)
	names["#ttl"] = "ttl"
	values[":expected_version"] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(item.Version, 10),
	}

	cond := pinGeneration(LiveVersionCondition(), names, values, gen)

	return &types.Update{
		TableName:                 aws.String(s.config.ItemsTable),
		Key:                       itemKey(item.ID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}, nil
}

// updateExpression builds the SET/REMOVE expression for an item update.
// Managed fields are skipped; parent_id is set or removed explicitly.
func updateExpression(raw map[string]types.AttributeValue, parentID string, now time.Time) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{
		"#updated_at": "updated_at",
		"#version":    "version",
		"#parent_id":  "parent_id",
	}
	values := map[string]types.AttributeValue{
		":updated_at": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
		":one":        &types.AttributeValueMemberN{Value: "1"},
	}

	fields := make([]string, 0, len(raw))
	for k := range raw {
		if _, managed := managedFields[k]; managed {
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var setClauses []string
	for i, k := range fields {
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		names[nameKey] = k
		values[valueKey] = raw[k]
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}

	setClauses = append(setClauses, "#updated_at = :updated_at", "#version = #version + :one")

	var removeClauses []string
	if parentID != "" {
		values[":parent_id"] = &types.AttributeValueMemberS{Value: parentID}
		setClauses = append(setClauses, "#parent_id = :parent_id")
	} else {
		removeClauses = append(removeClauses, "#parent_id")
	}
	if _, ok := raw["i18n"]; !ok {
		names["#i18n"] = "i18n"
		removeClauses = append(removeClauses, "#i18n")
	}

	expr := "SET " + strings.Join(setClauses, ", ")
	if len(removeClauses) > 0 {
		expr += " REMOVE " + strings.Join(removeClauses, ", ")
	}
	return expr, names, values
}

// transact executes a write transaction. An empty action list is a no-op.
func (s *Store) transact(ctx context.Context, actions []types.TransactWriteItem) error {
	if len(actions) == 0 {
		return nil
	}
	if len(actions) > MaxTransactItems {
		return fmt.Errorf("%w: %d actions", ErrTransactionTooLarge, len(actions))
	}
	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: actions,
	})
	return err
}

// mapTransactionError maps DynamoDB transaction errors to menu errors.
// The first checkCount actions are condition checks; a condition failure on
// any later action maps to onItem. A transaction that lost a conflict with
// another write maps to menu.ErrConcurrentModification.
func mapTransactionError(err error, checkCount int, onItem error) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		conflict := false
		for i, reason := range txErr.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed":
				if i < checkCount {
					return fmt.Errorf("%w: guarded item changed", menu.ErrConcurrentModification)
				}
				return onItem
			case "TransactionConflict":
				conflict = true
			}
		}
		if conflict {
			return fmt.Errorf("%w: conflicting transaction in progress", menu.ErrConcurrentModification)
		}
	}

	var conflictErr *types.TransactionConflictException
	if errors.As(err, &conflictErr) {
		return fmt.Errorf("%w: conflicting transaction in progress", menu.ErrConcurrentModification)
	}

	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunk(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
