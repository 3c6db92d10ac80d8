package main

import "testing"

func TestRunDispatch(t *testing.T) {
	if code := run([]string{"help"}); code != ExitSuccess {
		t.Errorf("help: expected %d, got %d", ExitSuccess, code)
	}
	if code := run([]string{"bogus"}); code != ExitInvalidArgs {
		t.Errorf("unknown command: expected %d, got %d", ExitInvalidArgs, code)
	}
	if code := run([]string{"presets"}); code != ExitSuccess {
		t.Errorf("presets: expected %d, got %d", ExitSuccess, code)
	}
}

func TestServeRejectsBadFlags(t *testing.T) {
	if code := run([]string{"serve", "-dir", "/nonexistent-fling-dir", "-preset", "warp"}); code != ExitBadConfig {
		t.Errorf("unknown preset: expected %d, got %d", ExitBadConfig, code)
	}
	if code := run([]string{"serve", "-dir", "/nonexistent-fling-dir", "-chunk-size", "lots"}); code != ExitInvalidArgs {
		t.Errorf("bad chunk size: expected %d, got %d", ExitInvalidArgs, code)
	}
}
