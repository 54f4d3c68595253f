package uploadconfig

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStoreSubscribeDeliversCurrentValue(t *testing.T) {
	store := NewStore()

	var got []*Config
	unsubscribe := store.Subscribe(func(c *Config) {
		got = append(got, c)
	})
	defer unsubscribe()

	if len(got) != 1 {
		t.Fatalf("Expected 1 immediate delivery, got %d", len(got))
	}
	if got[0] != nil {
		t.Errorf("Expected nil for empty store, got %+v", got[0])
	}

	store.Set(Config{Provider: ProviderVercel, BucketName: "b1", AccessToken: "t"})
	if len(got) != 2 {
		t.Fatalf("Expected 2 deliveries after Set, got %d", len(got))
	}
	if got[1] == nil || got[1].BucketName != "b1" {
		t.Errorf("Expected bucket b1, got %+v", got[1])
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	store := NewStore()

	calls := 0
	unsubscribe := store.Subscribe(func(*Config) { calls++ })
	unsubscribe()

	store.Set(Config{Provider: ProviderVercel})
	store.Reset()

	if calls != 1 {
		t.Errorf("Expected only the initial delivery, got %d calls", calls)
	}
}

func TestStoreUpdateMergesOverExisting(t *testing.T) {
	store := NewStore()
	store.Set(Config{Provider: ProviderVercel, BucketName: "b1", AccessToken: "t"})

	store.Update(Partial{BucketName: String("b2")})

	got := store.Snapshot()
	want := Config{Provider: ProviderVercel, BucketName: "b2", AccessToken: "t"}
	if got == nil {
		t.Fatal("Expected a configuration, got nil")
	}
	if got.Provider != want.Provider || got.BucketName != want.BucketName || got.AccessToken != want.AccessToken {
		t.Errorf("Expected %+v, got %+v", want, *got)
	}
	if got.SupabaseURL != nil || got.CloudinaryCloudName != nil {
		t.Errorf("Expected optional fields to stay unset, got %+v", *got)
	}
}

func TestStoreUpdateOnEmptyStoresPartial(t *testing.T) {
	store := NewStore()

	store.Update(Partial{BucketName: String("b2")})

	got := store.Snapshot()
	if got == nil {
		t.Fatal("Expected a partial configuration, got nil")
	}
	if got.BucketName != "b2" {
		t.Errorf("Expected bucket b2, got %q", got.BucketName)
	}
	if got.Provider != "" || got.AccessToken != "" {
		t.Errorf("Expected only bucketName to be set, got %+v", *got)
	}
}

func TestStoreUpdateOptionalFields(t *testing.T) {
	store := NewStore()
	store.Set(Config{Provider: ProviderSupabase, BucketName: "images", AccessToken: "t"})

	store.Update(Partial{SupabaseURL: String("https://proj.supabase.co")})

	got := store.Snapshot()
	if got.SupabaseURL == nil || *got.SupabaseURL != "https://proj.supabase.co" {
		t.Errorf("Expected supabase URL to be merged, got %+v", got.SupabaseURL)
	}
	if got.BucketName != "images" {
		t.Errorf("Expected bucket to be kept, got %q", got.BucketName)
	}
}

func TestStoreResetThenSubscribe(t *testing.T) {
	store := NewStore()
	store.Set(Config{Provider: ProviderCloudinary, BucketName: "preset", AccessToken: "t"})
	store.Reset()

	delivered := false
	var value *Config
	store.Subscribe(func(c *Config) {
		delivered = true
		value = c
	})

	if !delivered {
		t.Fatal("Expected immediate delivery to new subscriber")
	}
	if value != nil {
		t.Errorf("Expected nil after reset, got %+v", value)
	}
	if store.Snapshot() != nil {
		t.Error("Expected empty snapshot after reset")
	}
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	store := NewStore()
	store.Set(Config{Provider: ProviderSupabase, SupabaseURL: String("https://a")})

	snap := store.Snapshot()
	*snap.SupabaseURL = "https://mutated"
	snap.BucketName = "mutated"

	again := store.Snapshot()
	if *again.SupabaseURL != "https://a" || again.BucketName != "" {
		t.Errorf("Snapshot mutation leaked into store: %+v", again)
	}
}

func TestStoreInstancesAreIndependent(t *testing.T) {
	a := NewStore()
	b := NewStore()

	a.Set(Config{Provider: ProviderVercel})

	if b.Snapshot() != nil {
		t.Error("Expected second store to be unaffected")
	}
}

func TestStoreObserverMayReadStore(t *testing.T) {
	store := NewStore()

	var seen *Config
	store.Subscribe(func(c *Config) {
		if c != nil {
			seen = store.Snapshot()
		}
	})

	store.Set(Config{Provider: ProviderVercel, BucketName: "b"})

	if seen == nil || seen.BucketName != "b" {
		t.Errorf("Expected observer to read the new value, got %+v", seen)
	}
}

func TestStoreConcurrentSetsEndOnLatest(t *testing.T) {
	for run := 0; run < 200; run++ {
		store := NewStore()

		var mu sync.Mutex
		var last *Config
		store.Subscribe(func(c *Config) {
			mu.Lock()
			last = c
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				store.Set(Config{Provider: ProviderVercel, BucketName: fmt.Sprintf("b%d", i)})
			}(i)
		}
		wg.Wait()

		// A Set may return while another caller is still delivering its value.
		want := store.Snapshot()
		deadline := time.Now().Add(time.Second)
		for {
			mu.Lock()
			got := last
			mu.Unlock()
			if got != nil && got.BucketName == want.BucketName {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("run %d: observer holds %+v, store holds %+v", run, got, want)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func TestStoreObserverWriteIsDeliveredInOrder(t *testing.T) {
	store := NewStore()

	var seen []string
	store.Subscribe(func(c *Config) {
		if c == nil {
			seen = append(seen, "<nil>")
			return
		}
		seen = append(seen, c.BucketName)
		if c.BucketName == "b1" {
			store.Update(Partial{BucketName: String("b2")})
		}
	})

	store.Set(Config{Provider: ProviderVercel, BucketName: "b1"})

	want := []string{"<nil>", "b1", "b2"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("Expected deliveries %v, got %v", want, seen)
	}
}

func TestStoreUnsubscribeDropsQueuedDeliveries(t *testing.T) {
	store := NewStore()

	var calls int
	var unsubscribe func()
	store.Subscribe(func(c *Config) {
		if c != nil && unsubscribe != nil {
			unsubscribe()
		}
	})
	unsubscribe = store.Subscribe(func(*Config) { calls++ })

	store.Set(Config{Provider: ProviderVercel})

	if calls != 1 {
		t.Errorf("Expected only the initial delivery, got %d", calls)
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"vercel", ProviderVercel, false},
		{"Supabase", ProviderSupabase, false},
		{" cloudinary ", ProviderCloudinary, false},
		{"s3", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestConfigMasked(t *testing.T) {
	cfg := Config{AccessToken: "secret-token-1234"}
	masked := cfg.Masked()
	if masked.AccessToken != "*************1234" {
		t.Errorf("Unexpected masked token %q", masked.AccessToken)
	}
	if cfg.AccessToken != "secret-token-1234" {
		t.Error("Masked must not modify the original")
	}

	short := Config{AccessToken: "abc"}.Masked()
	if short.AccessToken != "****" {
		t.Errorf("Expected short token to be fully masked, got %q", short.AccessToken)
	}
}

func TestFromEnv(t *testing.T) {
	env := func(values map[string]string) LookupFunc {
		return func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		}
	}

	tests := []struct {
		name    string
		values  map[string]string
		want    Config
		errIs   error
		errText string
	}{
		{
			name:    "missing provider",
			values:  map[string]string{},
			errIs:   ErrEnvMissing,
			errText: EnvProvider,
		},
		{
			name:    "unknown provider",
			values:  map[string]string{EnvProvider: "dropbox"},
			errText: "supported values are vercel, supabase, cloudinary",
		},
		{
			name:    "missing bucket",
			values:  map[string]string{EnvProvider: "vercel"},
			errIs:   ErrEnvMissing,
			errText: EnvBucketName,
		},
		{
			name: "missing provider token",
			values: map[string]string{
				EnvProvider:   "supabase",
				EnvBucketName: "images",
				// token for another provider must not be used
				"IMAGEDROP_VERCEL_ACCESS_TOKEN": "t",
			},
			errIs:   ErrEnvMissing,
			errText: "IMAGEDROP_SUPABASE_ACCESS_TOKEN",
		},
		{
			name: "complete supabase",
			values: map[string]string{
				EnvProvider:                       "supabase",
				EnvBucketName:                     "images",
				"IMAGEDROP_SUPABASE_ACCESS_TOKEN": "svc",
				EnvSupabaseURL:                    "https://proj.supabase.co",
			},
			want: Config{
				Provider:    ProviderSupabase,
				BucketName:  "images",
				AccessToken: "svc",
				SupabaseURL: String("https://proj.supabase.co"),
			},
		},
		{
			name: "complete cloudinary",
			values: map[string]string{
				EnvProvider:                         "cloudinary",
				EnvBucketName:                       "preset",
				"IMAGEDROP_CLOUDINARY_ACCESS_TOKEN": "tok",
				EnvCloudinaryCloudName:              "demo",
			},
			want: Config{
				Provider:            ProviderCloudinary,
				BucketName:          "preset",
				AccessToken:         "tok",
				CloudinaryCloudName: String("demo"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromEnv(env(tt.values))
			if tt.errText != "" {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.errIs != nil && !errors.Is(err, tt.errIs) {
					t.Errorf("Expected error wrapping %v, got %v", tt.errIs, err)
				}
				if !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("Expected error containing %q, got %q", tt.errText, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Provider != tt.want.Provider || got.BucketName != tt.want.BucketName || got.AccessToken != tt.want.AccessToken {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if !equalPtr(got.SupabaseURL, tt.want.SupabaseURL) || !equalPtr(got.CloudinaryCloudName, tt.want.CloudinaryCloudName) {
				t.Errorf("Optional fields mismatch: got %+v", got)
			}
		})
	}
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
