package service

import (
	"context"
	"testing"
	"time"

	"github.com/TIANLI0/StatScan/config"
	"github.com/TIANLI0/StatScan/model"
	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisService(&config.RedisConfig{Addr: mr.Addr(), TTL: time.Hour})
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisAnalysisRoundTrip(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}

	key := CacheKey("abc", "default", false)
	got, err := s.GetAnalysis(ctx, key)
	if err != nil || got != nil {
		t.Fatalf("miss = %v, %v", got, err)
	}

	pct := 42
	in := &model.AnalysisResult{
		MD5:     "abc",
		Profile: "default",
		Bars:    []model.BarResult{{Name: "HP", Percentage: &pct}, {Name: "ATK"}},
		Text:    "HP: 42%\nATK: N/A",
	}
	if err := s.SetAnalysis(ctx, key, in); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("statbar:abc:default") {
		t.Fatal("key not stored under prefix")
	}
	if ttl := mr.TTL("statbar:abc:default"); ttl != time.Hour {
		t.Errorf("ttl = %v", ttl)
	}

	got, err = s.GetAnalysis(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != in.Text || *got.Bars[0].Percentage != 42 || got.Bars[1].Percentage != nil {
		t.Errorf("cached = %+v", got)
	}
}

func TestRedisCorruptEntry(t *testing.T) {
	s, mr := newTestRedis(t)
	mr.Set("statbar:bad", "{")
	if _, err := s.GetAnalysis(context.Background(), "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCacheKey(t *testing.T) {
	if k := CacheKey("m", "p", true); k != "m:p:overlay" {
		t.Errorf("CacheKey = %s", k)
	}
	if CacheKey("m", "p", false) == CacheKey("m", "q", false) {
		t.Error("profiles share a cache key")
	}
}
