package universe

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

//DefPersistKey is the namespace key of the persisted universe record
const DefPersistKey = "soul-universe"

//KV is the durable key-value storage the store snapshots itself into
type KV interface {
	//Get returns nil, nil when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

//Snapshot is the persisted subset of the universe state
//connections and interaction counters are ephemeral and never persisted
type Snapshot struct {
	Souls          []Soul  `yaml:"souls"`
	MySoulID       *string `yaml:"mySoulId"`
	TotalSouls     *int    `yaml:"totalSouls"`
	ShowOnboarding *bool   `yaml:"showOnboarding"`
}

//snapshotOf extracts the persisted subset of the state
func snapshotOf(st State) Snapshot {
	sn := Snapshot{
		Souls:          st.Souls,
		TotalSouls:     &st.TotalSouls,
		ShowOnboarding: &st.ShowOnboarding,
	}
	if st.MySoulID != "" {
		sn.MySoulID = &st.MySoulID
	}
	if sn.Souls == nil {
		sn.Souls = []Soul{}
	}
	return sn
}

//mergeInto overlays the snapshot fields present over the state
func (sn Snapshot) mergeInto(st *State) {
	if sn.Souls != nil {
		st.Souls = sn.Souls
		for i := range st.Souls {
			if st.Souls[i].Connections == nil {
				st.Souls[i].Connections = []string{}
			}
		}
	}
	if sn.MySoulID != nil {
		st.MySoulID = *sn.MySoulID
	}
	if sn.TotalSouls != nil {
		st.TotalSouls = *sn.TotalSouls
	}
	if sn.ShowOnboarding != nil {
		st.ShowOnboarding = *sn.ShowOnboarding
	}
}

//EncodeSnapshot serializes the persisted subset of the state as a YAML document
func EncodeSnapshot(st State) ([]byte, error) {
	b, err := yaml.Marshal(snapshotOf(st))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

//DecodeSnapshot parses the document written by EncodeSnapshot
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var sn Snapshot
	if err := yaml.Unmarshal(b, &sn); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return sn, nil
}
