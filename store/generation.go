package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/menutree/menu"
)

// Menu generations.
//
// Every item is stamped with the menu generation of its workspace at write
// time, and reads only return items whose generation matches the one
// currently recorded on the workspace. A structure replace writes its items
// under a fresh generation and then switches the workspace to it with one
// conditional update, so readers see either the old tree or the new one.
// Workspaces that were never replaced have no generation, and neither do
// their items.
const (
	generationAttr     = "generation"
	menuGenerationAttr = "menu_generation"
)

// generationCondition matches records whose attr equals gen, or that lack
// attr when gen is empty. values is nil when the condition needs none.
func generationCondition(attr, gen string) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{"#gen": attr}
	if gen == "" {
		return "attribute_not_exists(#gen)", names, nil
	}
	return "#gen = :gen", names, map[string]types.AttributeValue{
		":gen": &types.AttributeValueMemberS{Value: gen},
	}
}

// pinGeneration extends an item condition so it also requires generation gen.
// values must be non-nil.
func pinGeneration(cond string, names map[string]string, values map[string]types.AttributeValue, gen string) string {
	expr, genNames, genValues := generationCondition(generationAttr, gen)
	for k, v := range genNames {
		names[k] = v
	}
	for k, v := range genValues {
		values[k] = v
	}
	return cond + " AND " + expr
}

// generationOf returns the generation stamped on a raw item record.
func generationOf(raw map[string]types.AttributeValue) string {
	if v, ok := raw[generationAttr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// generations reads the current menu generation of each workspace. Missing
// workspaces have the empty generation.
func (s *Store) generations(ctx context.Context, workspaceIDs []string) (map[string]string, error) {
	gens := make(map[string]string, len(workspaceIDs))
	for _, id := range dedupe(workspaceIDs) {
		result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:                aws.String(s.config.WorkspacesTable),
			Key:                      itemKey(id),
			ConsistentRead:           aws.Bool(true),
			ProjectionExpression:     aws.String("#gen"),
			ExpressionAttributeNames: map[string]string{"#gen": menuGenerationAttr},
		})
		if err != nil {
			return nil, fmt.Errorf("read menu generation of workspace %s: %w", id, err)
		}
		gens[id] = ""
		if v, ok := result.Item[menuGenerationAttr].(*types.AttributeValueMemberS); ok {
			gens[id] = v.Value
		}
	}
	return gens, nil
}

// generationChecks builds one condition check per workspace asserting that
// its menu generation is still the one the write was stamped with.
func (s *Store) generationChecks(gens map[string]string) []types.TransactWriteItem {
	ids := make([]string, 0, len(gens))
	for id := range gens {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	checks := make([]types.TransactWriteItem, 0, len(ids))
	for _, id := range ids {
		expr, names, values := generationCondition(menuGenerationAttr, gens[id])
		checks = append(checks, types.TransactWriteItem{
			ConditionCheck: &types.ConditionCheck{
				TableName:                 aws.String(s.config.WorkspacesTable),
				Key:                       itemKey(id),
				ConditionExpression:       aws.String(expr),
				ExpressionAttributeNames:  names,
				ExpressionAttributeValues: values,
			},
		})
	}
	return checks
}

// switchGeneration makes newGen the current menu generation of a live
// workspace, provided it is still at oldGen.
func (s *Store) switchGeneration(ctx context.Context, workspaceID, oldGen, newGen string) error {
	cond, names, values := generationCondition(menuGenerationAttr, oldGen)
	if values == nil {
		values = make(map[string]types.AttributeValue, 1)
	}
	names["#ttl"] = "ttl"
	values[":new_gen"] = &types.AttributeValueMemberS{Value: newGen}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.WorkspacesTable),
		Key:                       itemKey(workspaceID),
		UpdateExpression:          aws.String("SET #gen = :new_gen"),
		ConditionExpression:       aws.String("attribute_exists(id) AND attribute_not_exists(#ttl) AND " + cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})

	var condErr *types.ConditionalCheckFailedException
	var conflictErr *types.TransactionConflictException
	if errors.As(err, &condErr) || errors.As(err, &conflictErr) {
		return fmt.Errorf("%w: menu of workspace %s was replaced or deleted", menu.ErrConcurrentModification, workspaceID)
	}
	return err
}

// discard marks items outside the current generation for deletion. Reads
// already skip them; this only reclaims their storage.
func (s *Store) discard(ctx context.Context, ids []string) error {
	ctx = context.WithoutCancel(ctx)
	ttl := time.Now().Unix()

	var errs []error
	for _, id := range ids {
		if err := s.setTTL(ctx, s.config.ItemsTable, itemKey(id), ttl); err != nil {
			errs = append(errs, fmt.Errorf("discard menu item %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// expireStale marks every item of the workspace outside generation gen for
// deletion.
func (s *Store) expireStale(ctx context.Context, workspaceID, gen string) error {
	ids, err := s.MemberIDs(ctx, workspaceID)
	if err != nil {
		return err
	}
	raws, err := s.fetchLive(ctx, ids)
	if err != nil {
		return err
	}

	var stale []string
	for _, id := range ids {
		raw, ok := raws[id]
		if ok && generationOf(raw) != gen {
			stale = append(stale, id)
		}
	}
	return s.discard(ctx, stale)
}
