package password

import (
	"strings"
	"testing"
)

// Parámetros livianos: los tests no miden resistencia a fuerza bruta.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(testParams, "correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected phc shape: %s", phc)
	}
	if !Verify("correct horse battery staple", phc) {
		t.Fatalf("freshly hashed password must verify: %s", phc)
	}
	if Verify("correct horse battery stapl", phc) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	a, _ := Hash(testParams, "secret")
	b, _ := Hash(testParams, "secret")
	if a == b {
		t.Fatal("two hashes of the same password must use distinct salts")
	}
	if !Verify("secret", a) || !Verify("secret", b) {
		t.Fatal("both hashes must verify independently")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(testParams, ""); err == nil {
		t.Fatal("empty password must not hash")
	}
}

func TestVerify_MalformedHashes(t *testing.T) {
	valid, _ := Hash(testParams, "secret")

	cases := []struct {
		name string
		phc  string
	}{
		{"empty", ""},
		{"garbage", "not-a-phc-string"},
		{"wrong algorithm", strings.Replace(valid, "argon2id", "argon2i", 1)},
		{"wrong version", strings.Replace(valid, "v=19", "v=18", 1)},
		{"missing fields", "$argon2id$v=19$m=8192,t=1,p=1"},
		{"extra field", valid + "$extra"},
		{"bad salt b64", "$argon2id$v=19$m=8192,t=1,p=1$!!!$AAAA"},
		{"bad key b64", "$argon2id$v=19$m=8192,t=1,p=1$AAAA$!!!"},
		{"empty key", "$argon2id$v=19$m=8192,t=1,p=1$AAAA$"},
		{"non-numeric params", "$argon2id$v=19$m=x,t=y,p=z$AAAA$AAAA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Verify("secret", tc.phc) {
				t.Fatalf("malformed hash must not verify: %q", tc.phc)
			}
		})
	}
}
