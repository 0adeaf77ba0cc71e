package observability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// TestNewShutdownManager tests the creation of a new shutdown manager
func TestNewShutdownManager(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{
			name:            "with custom timeout",
			timeout:         10 * time.Second,
			expectedTimeout: 10 * time.Second,
		},
		{
			name:            "with zero timeout uses default",
			timeout:         0,
			expectedTimeout: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(InfoLevel, &bytes.Buffer{})
			server := &http.Server{}

			sm := NewShutdownManager(logger, server, tt.timeout)

			if sm == nil {
				t.Fatal("Expected non-nil shutdown manager")
			}
			if sm.logger != logger {
				t.Error("Logger not set correctly")
			}
			if sm.server != server {
				t.Error("Server not set correctly")
			}
			if sm.shutdownTimeout != tt.expectedTimeout {
				t.Errorf("Expected timeout %v, got %v", tt.expectedTimeout, sm.shutdownTimeout)
			}
			if len(sm.shutdownFuncs) != 0 {
				t.Error("Expected empty shutdown functions slice")
			}
		})
	}
}

// TestNewShutdownManagerWithNilLogger tests creation with nil logger
func TestNewShutdownManagerWithNilLogger(t *testing.T) {
	// Should not panic even with nil logger
	sm := NewShutdownManager(nil, nil, 5*time.Second)

	if sm == nil {
		t.Fatal("Expected non-nil shutdown manager")
	}
	if sm.shutdownTimeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", sm.shutdownTimeout)
	}
}

// TestRegisterShutdownFunc tests registering shutdown functions, including
// concurrent registration.
func TestRegisterShutdownFunc(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	sm := NewShutdownManager(logger, nil, 5*time.Second)

	sm.RegisterShutdownFunc(func(ctx context.Context) error { return nil })
	if len(sm.shutdownFuncs) != 1 {
		t.Errorf("Expected 1 shutdown function, got %d", len(sm.shutdownFuncs))
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.RegisterShutdownFunc(func(ctx context.Context) error { return nil })
		}()
	}
	wg.Wait()

	if len(sm.shutdownFuncs) != 11 {
		t.Errorf("Expected 11 shutdown functions, got %d", len(sm.shutdownFuncs))
	}
}

// executeShutdownLogic runs WaitForShutdown's post-signal logic directly,
// since sending real signals to the test process is unreliable.
func executeShutdownLogic(sm *ShutdownManager) error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.shutdownTimeout)
	defer cancel()

	if sm.server != nil {
		sm.logger.Info("Shutting down HTTP server")
		if err := sm.server.Shutdown(ctx); err != nil {
			sm.logger.WithError(err).Error("HTTP server shutdown error")
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		sm.logger.Info("HTTP server shutdown complete")
	}

	sm.mu.Lock()
	funcs := sm.shutdownFuncs
	sm.mu.Unlock()

	var wg sync.WaitGroup
	errChan := make(chan error, len(funcs))

	for i, fn := range funcs {
		wg.Add(1)
		go func(index int, shutdownFn ShutdownFunc) {
			defer wg.Done()
			sm.logger.Infof("Executing shutdown function %d", index)
			if err := shutdownFn(ctx); err != nil {
				sm.logger.WithError(err).Errorf("Shutdown function %d failed", index)
				errChan <- err
			} else {
				sm.logger.Infof("Shutdown function %d complete", index)
			}
		}(i, fn)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		sm.logger.Info("All shutdown functions completed")
	case <-ctx.Done():
		sm.logger.Warn("Shutdown timeout reached, forcing shutdown")
		return fmt.Errorf("shutdown timeout reached")
	}

	close(errChan)
	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors", len(errs))
	}

	sm.logger.Info("Graceful shutdown complete")
	return nil
}

// TestShutdownFunctionsExecution tests that shutdown functions are executed
// and their errors aggregated.
func TestShutdownFunctionsExecution(t *testing.T) {
	tests := []struct {
		name           string
		setupFuncs     func() []ShutdownFunc
		expectedErrors int
	}{
		{
			name: "successful shutdown functions",
			setupFuncs: func() []ShutdownFunc {
				return []ShutdownFunc{
					func(ctx context.Context) error { return nil },
					func(ctx context.Context) error { return nil },
				}
			},
			expectedErrors: 0,
		},
		{
			name: "shutdown function with error",
			setupFuncs: func() []ShutdownFunc {
				return []ShutdownFunc{
					func(ctx context.Context) error { return errors.New("shutdown error 1") },
					func(ctx context.Context) error { return nil },
				}
			},
			expectedErrors: 1,
		},
		{
			name: "multiple shutdown functions with errors",
			setupFuncs: func() []ShutdownFunc {
				return []ShutdownFunc{
					func(ctx context.Context) error { return errors.New("error 1") },
					func(ctx context.Context) error { return errors.New("error 2") },
					func(ctx context.Context) error { return errors.New("error 3") },
				}
			},
			expectedErrors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(InfoLevel, io.Discard)
			sm := NewShutdownManager(logger, nil, 5*time.Second)

			for _, fn := range tt.setupFuncs() {
				sm.RegisterShutdownFunc(fn)
			}

			err := executeShutdownLogic(sm)

			if tt.expectedErrors > 0 {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				expectedMsg := fmt.Sprintf("shutdown completed with %d errors", tt.expectedErrors)
				if err.Error() != expectedMsg {
					t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

// TestShutdownWithHTTPServer tests shutdown with and without an HTTP server.
func TestShutdownWithHTTPServer(t *testing.T) {
	tests := []struct {
		name        string
		setupServer func() *http.Server
		expectError bool
	}{
		{
			name: "successful server shutdown",
			setupServer: func() *http.Server {
				server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))
				server.Start()
				return server.Config
			},
			expectError: false,
		},
		{
			name:        "nil server",
			setupServer: func() *http.Server { return nil },
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(InfoLevel, io.Discard)
			sm := NewShutdownManager(logger, tt.setupServer(), 5*time.Second)

			err := executeShutdownLogic(sm)
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

// TestShutdownTimeout tests that shutdown respects timeout rather than
// waiting for a slow shutdown function.
func TestShutdownTimeout(t *testing.T) {
	logger := NewLogger(InfoLevel, io.Discard)
	sm := NewShutdownManager(logger, nil, 500*time.Millisecond)

	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	start := time.Now()
	err := executeShutdownLogic(sm)
	elapsed := time.Since(start)

	if err == nil || err.Error() != "shutdown timeout reached" {
		t.Errorf("Expected 'shutdown timeout reached' error, got: %v", err)
	}
	if elapsed > 1*time.Second {
		t.Errorf("Shutdown took too long: %v", elapsed)
	}
}

// TestShutdownConcurrentExecution tests that shutdown functions run
// concurrently rather than sequentially.
func TestShutdownConcurrentExecution(t *testing.T) {
	logger := NewLogger(InfoLevel, io.Discard)
	sm := NewShutdownManager(logger, nil, 5*time.Second)

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 3; i++ {
		sm.RegisterShutdownFunc(func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		})
	}

	start := time.Now()
	err := executeShutdownLogic(sm)
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
	// Sequential execution would take ~300ms; concurrent stays near 100ms.
	if elapsed > 250*time.Millisecond {
		t.Error("Functions did not run concurrently")
	}
	if ran != 3 {
		t.Errorf("Expected 3 functions to execute, got %d", ran)
	}
}

// TestShutdownWithMixedSuccessAndFailure tests that failing shutdown
// functions don't stop the successful ones from running.
func TestShutdownWithMixedSuccessAndFailure(t *testing.T) {
	logger := NewLogger(InfoLevel, io.Discard)
	sm := NewShutdownManager(logger, nil, 5*time.Second)

	var mu sync.Mutex
	successCount, errorCount := 0, 0

	for i := 0; i < 3; i++ {
		sm.RegisterShutdownFunc(func(ctx context.Context) error {
			mu.Lock()
			successCount++
			mu.Unlock()
			return nil
		})
	}
	for i := 0; i < 2; i++ {
		sm.RegisterShutdownFunc(func(ctx context.Context) error {
			mu.Lock()
			errorCount++
			mu.Unlock()
			return errors.New("intentional error")
		})
	}

	err := executeShutdownLogic(sm)
	if err == nil || err.Error() != "shutdown completed with 2 errors" {
		t.Errorf("Expected 'shutdown completed with 2 errors', got: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if successCount != 3 {
		t.Errorf("Expected 3 successful shutdowns, got %d", successCount)
	}
	if errorCount != 2 {
		t.Errorf("Expected 2 failed shutdowns, got %d", errorCount)
	}
}

// TestShutdownEmptyFunctionList tests shutdown with no registered functions.
func TestShutdownEmptyFunctionList(t *testing.T) {
	logger := NewLogger(InfoLevel, io.Discard)
	sm := NewShutdownManager(logger, nil, 5*time.Second)

	if err := executeShutdownLogic(sm); err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}
