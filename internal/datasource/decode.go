package datasource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/kpidash/schema"
)

var errEmptyDocument = errors.New("empty document")

func decodeInto(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyDocument
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// DecodeIncidents parses an incidents document.
func DecodeIncidents(data []byte) (*schema.IncidentsDataset, error) {
	var ds schema.IncidentsDataset
	if err := decodeInto(data, &ds); err != nil {
		return nil, err
	}
	if ds.Teams == nil {
		return nil, errors.New("incidents document has no teams")
	}
	return &ds, nil
}

// DecodeTechDebt parses a tech debt document.
func DecodeTechDebt(data []byte) (*schema.TechDebtDataset, error) {
	var ds schema.TechDebtDataset
	if err := decodeInto(data, &ds); err != nil {
		return nil, err
	}
	if ds.Teams == nil {
		return nil, errors.New("tech debt document has no teams")
	}
	return &ds, nil
}

// DecodeCycleTime parses a cycle time document.
func DecodeCycleTime(data []byte) (*schema.CycleTimeDataset, error) {
	var ds schema.CycleTimeDataset
	if err := decodeInto(data, &ds); err != nil {
		return nil, err
	}
	if ds.Teams == nil {
		return nil, errors.New("cycle time document has no teams")
	}
	return &ds, nil
}

// DecodeLeadTime parses a lead time document, resolving which of the two
// shapes it is: a "datasets" key selects the multi-scope shape, anything
// else is read as a single legacy dataset.
func DecodeLeadTime(data []byte) (schema.LeadTimeDataset, error) {
	var probe map[string]json.RawMessage
	if err := decodeInto(data, &probe); err != nil {
		return nil, err
	}

	if _, ok := probe["datasets"]; ok {
		var multi schema.MultiScopeLeadTime
		if err := json.Unmarshal(data, &multi); err != nil {
			return nil, fmt.Errorf("decoding multi-scope lead time: %w", err)
		}
		if len(multi.Datasets) == 0 {
			return nil, errors.New("lead time document has no datasets")
		}
		return &multi, nil
	}

	if _, ok := probe["epics"]; !ok {
		if _, ok := probe["by_quarter"]; !ok {
			return nil, errors.New("lead time document has neither datasets nor epics")
		}
	}
	var legacy schema.LegacyLeadTime
	if err := json.Unmarshal(data, &legacy.LeadTimeScope); err != nil {
		return nil, fmt.Errorf("decoding lead time: %w", err)
	}
	return &legacy, nil
}
