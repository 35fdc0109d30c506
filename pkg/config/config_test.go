package config

import "testing"

func TestStorefrontEndpoint(t *testing.T) {
	cfg := StorefrontConfig{StoreDomain: "jaylife.myshopify.com", APIVersion: "2024-10"}
	want := "https://jaylife.myshopify.com/api/2024-10/graphql.json"
	if got := cfg.Endpoint(); got != want {
		t.Fatalf("unexpected endpoint %q", got)
	}

	cfg.StoreDomain = "https://jaylife.myshopify.com/"
	if got := cfg.Endpoint(); got != want {
		t.Fatalf("scheme-qualified domain mishandled: %q", got)
	}
}

func TestStorefrontValidate(t *testing.T) {
	cfg := StorefrontConfig{}
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for missing domain")
	}
	cfg.StoreDomain = "jaylife.myshopify.com"
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for missing token")
	}
	cfg.AccessToken = "shpat_test"
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionStoreValidate(t *testing.T) {
	for _, backend := range []string{SessionBackendMemory, SessionBackendRedis, SessionBackendDB} {
		cfg := SessionStoreConfig{Backend: backend}
		if err := cfg.validate(); err != nil {
			t.Fatalf("backend %q rejected: %v", backend, err)
		}
	}
	cfg := SessionStoreConfig{Backend: "filesystem"}
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
