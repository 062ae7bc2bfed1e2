// Package dynamotest provides an in-memory stand-in for the DynamoDB item API.
package dynamotest

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Memory stores items per table, keyed by the string value of the table's
// hash key attribute.
type Memory struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string]map[string]map[string]types.AttributeValue

	// Err, when set, fails every call.
	Err error
}

// New takes table name -> hash key attribute name.
func New(keys map[string]string) *Memory {
	return &Memory{keys: keys, tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (m *Memory) keyValue(table string, item map[string]types.AttributeValue) (string, error) {
	attr, ok := m.keys[table]
	if !ok {
		return "", errors.New("unknown table " + table)
	}
	s, ok := item[attr].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key attribute " + attr)
	}
	return s.Value, nil
}

// Item returns the raw stored item, or nil.
func (m *Memory) Item(table, key string) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[table][key]
}

// SetItem stores a raw item, bypassing marshalling.
func (m *Memory) SetItem(table string, item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := m.keyValue(table, item)
	if err != nil {
		panic(err)
	}
	if m.tables[table] == nil {
		m.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	m.tables[table][k] = item
}

func (m *Memory) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	table := aws.ToString(in.TableName)
	k, err := m.keyValue(table, in.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: m.tables[table][k]}, nil
}

func (m *Memory) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	table := aws.ToString(in.TableName)
	k, err := m.keyValue(table, in.Item)
	if err != nil {
		return nil, err
	}
	if m.tables[table] == nil {
		m.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	m.tables[table][k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *Memory) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	table := aws.ToString(in.TableName)
	k, err := m.keyValue(table, in.Key)
	if err != nil {
		return nil, err
	}
	delete(m.tables[table], k)
	return &dynamodb.DeleteItemOutput{}, nil
}
