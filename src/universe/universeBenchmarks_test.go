package universe

import (
	"math/rand"
	"testing"

	"go.uber.org/zap"
)

const benchSouls = 200

func newBenchStore(b *testing.B, kv KV) *Store {
	s := NewStore(&Options{
		Clock:  NewManualClock(testStart),
		KV:     kv,
		Logger: zap.NewNop(),
		Rand:   rand.New(rand.NewSource(1)),
	})
	s.SettleWithRandomData(benchSouls)
	return s
}

func Benchmark_SendEnergy(b *testing.B) {
	for _, bc := range []struct {
		name string
		kv   KV
	}{
		{"memory", nil},
		{"persisted", newMemKV()},
	} {
		b.Run(bc.name, func(b *testing.B) {
			s := newBenchStore(b, bc.kv)
			defer s.Close()
			souls := s.State().Souls
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.SendEnergy(souls[i%benchSouls].ID, souls[(i+1)%benchSouls].ID)
			}
		})
	}
}

func Benchmark_CreateConnection(b *testing.B) {
	s := newBenchStore(b, nil)
	defer s.Close()
	souls := s.State().Souls
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.CreateConnection(souls[i%benchSouls].ID, souls[(i+7)%benchSouls].ID)
	}
}
