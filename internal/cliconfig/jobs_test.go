package cliconfig

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/loopship/internal/domain"
	"github.com/bft-labs/loopship/pkg/content"
	"github.com/bft-labs/loopship/pkg/log"
	"github.com/bft-labs/loopship/pkg/loop"
)

func intPtr(v int) *int { return &v }

func firstChunk(t *testing.T, l loop.Loop) []byte {
	t.Helper()
	it := l.Iterator(context.Background())
	defer it.Close()
	if !it.HasNext() {
		t.Fatal("HasNext() = false, want true")
	}
	chunk, err := it.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	return chunk
}

func TestBuildJobs_FileFrame(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hk.bin"), []byte("ABCDEFGH"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := DefaultConfig()
	cfg.BaseDir = dir
	cfg.Frames = []FrameConfig{{
		Label:   "hk",
		ID:      "6f1c2e0a-0000-4000-8000-000000000001",
		Rate:    "250ms",
		DstIP:   "127.0.0.1",
		DstPort: 9001,
		SrcPort: 7001,
		Except:  []string{"safe-mode"},
		Repeat:  intPtr(2),
		File:    "hk.bin",
		Size:    3,
		Offset:  2,
	}}

	jobs, err := BuildJobs(cfg, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("BuildJobs() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}

	job := jobs[0]
	if job.Frame.ID.String() != "6f1c2e0a-0000-4000-8000-000000000001" {
		t.Errorf("ID = %s", job.Frame.ID)
	}
	if job.Frame.Rate != 250*time.Millisecond {
		t.Errorf("Rate = %v, want 250ms", job.Frame.Rate)
	}
	if job.Frame.SrcPort != 7001 || !job.Frame.ExcludedFrom("safe-mode") {
		t.Errorf("frame = %+v", job.Frame)
	}

	fl, ok := job.Loop.(*loop.FileLoop)
	if !ok {
		t.Fatalf("Loop is %T, want *loop.FileLoop", job.Loop)
	}
	if fl.Path() != filepath.Join(dir, "hk.bin") || fl.Size() != 3 || fl.Repeat() != 2 || fl.Offset() != 2 {
		t.Errorf("file loop = path %s size %d repeat %d offset %d", fl.Path(), fl.Size(), fl.Repeat(), fl.Offset())
	}
	if got := firstChunk(t, job.Loop); string(got) != "CDE" {
		t.Errorf("first chunk = %q, want CDE", got)
	}
}

func TestBuildJobs_FileFrameDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 128
	cfg.Frames = []FrameConfig{{Label: "hk", DstIP: "127.0.0.1", DstPort: 9001, File: "/data/hk.bin"}}

	jobs, err := BuildJobs(cfg, nil)
	if err != nil {
		t.Fatalf("BuildJobs() error = %v", err)
	}
	fl := jobs[0].Loop.(*loop.FileLoop)
	if fl.Size() != 128 {
		t.Errorf("Size = %d, want 128", fl.Size())
	}
	if fl.Repeat() != loop.Infinite {
		t.Errorf("Repeat = %d, want Infinite", fl.Repeat())
	}
	if fl.Path() != "/data/hk.bin" {
		t.Errorf("Path = %s, want /data/hk.bin", fl.Path())
	}
	if jobs[0].Frame.Rate != DefaultFrameRate {
		t.Errorf("Rate = %v, want %v", jobs[0].Frame.Rate, DefaultFrameRate)
	}
}

func TestBuildJobs_PayloadFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frames = []FrameConfig{{
		Label:   "status",
		DstIP:   "127.0.0.1",
		DstPort: 9002,
		Repeat:  intPtr(1),
		Payload: &PayloadConfig{
			Size: 12,
			Params: []ParamConfig{
				{Label: "greeting", Type: content.String.Name(), Value: "hello ", Constant: true},
				{Label: "counter", Type: content.Int.Name(), Value: "42"},
			},
		},
	}}

	jobs, err := BuildJobs(cfg, nil)
	if err != nil {
		t.Fatalf("BuildJobs() error = %v", err)
	}
	pl, ok := jobs[0].Loop.(*loop.PayloadLoop)
	if !ok {
		t.Fatalf("Loop is %T, want *loop.PayloadLoop", jobs[0].Loop)
	}
	if pl.Repeat() != 1 {
		t.Errorf("Repeat = %d, want 1", pl.Repeat())
	}
	if len(jobs[0].Watchers) != 0 {
		t.Errorf("got %d watchers, want 0", len(jobs[0].Watchers))
	}

	want := append([]byte("hello "), 0, 0, 0, 42, 0, 0)
	if got := firstChunk(t, pl); !bytes.Equal(got, want) {
		t.Errorf("chunk = %v, want %v", got, want)
	}
}

func TestBuildJobs_FileParamIsWatched(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "body.txt"), []byte("v1"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := DefaultConfig()
	cfg.BaseDir = dir
	cfg.Frames = []FrameConfig{{
		Label:   "doc",
		DstIP:   "127.0.0.1",
		DstPort: 9003,
		Payload: &PayloadConfig{Params: []ParamConfig{{Label: "body", Type: "file", Value: "body.txt"}}},
	}}

	jobs, err := BuildJobs(cfg, nil)
	if err != nil {
		t.Fatalf("BuildJobs() error = %v", err)
	}
	if len(jobs[0].Watchers) != 1 {
		t.Fatalf("got %d watchers, want 1", len(jobs[0].Watchers))
	}
	if got := firstChunk(t, jobs[0].Loop); string(got) != "v1" {
		t.Errorf("chunk = %q, want v1", got)
	}
}

func TestBuildJobs_Errors(t *testing.T) {
	valid := func() FrameConfig {
		return FrameConfig{Label: "f", DstIP: "127.0.0.1", DstPort: 9000, File: "f.bin"}
	}
	payload := &PayloadConfig{Params: []ParamConfig{{Label: "p", Type: "string", Value: "x"}}}

	tests := []struct {
		name       string
		frames     func() []FrameConfig
		wantConfig bool
		wantErr    error
	}{
		{"file and payload", func() []FrameConfig { f := valid(); f.Payload = payload; return []FrameConfig{f} }, true, nil},
		{"neither file nor payload", func() []FrameConfig { f := valid(); f.File = ""; return []FrameConfig{f} }, true, nil},
		{"bad rate", func() []FrameConfig { f := valid(); f.Rate = "often"; return []FrameConfig{f} }, true, nil},
		{"bad id", func() []FrameConfig { f := valid(); f.ID = "not-a-uuid"; return []FrameConfig{f} }, true, nil},
		{"bad destination", func() []FrameConfig { f := valid(); f.DstIP = "nowhere"; return []FrameConfig{f} }, true, nil},
		{"duplicate labels", func() []FrameConfig { return []FrameConfig{valid(), valid()} }, true, nil},
		{"negative offset", func() []FrameConfig { f := valid(); f.Offset = -1; return []FrameConfig{f} }, false, loop.ErrInvalidArgument},
		{"negative size", func() []FrameConfig { f := valid(); f.Size = -1; return []FrameConfig{f} }, false, loop.ErrInvalidArgument},
		{"empty payload", func() []FrameConfig { f := valid(); f.File = ""; f.Payload = &PayloadConfig{}; return []FrameConfig{f} }, true, nil},
		{"unknown param type", func() []FrameConfig {
			f := valid()
			f.File = ""
			f.Payload = &PayloadConfig{Params: []ParamConfig{{Label: "p", Type: "quaternion", Value: "1"}}}
			return []FrameConfig{f}
		}, false, content.ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Frames = tt.frames()

			_, err := BuildJobs(cfg, nil)
			if err == nil {
				t.Fatal("BuildJobs() expected error")
			}
			if tt.wantConfig && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
