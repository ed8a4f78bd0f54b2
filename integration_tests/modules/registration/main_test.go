//go:build integration

package registrationintegrationtests

import (
	"log"
	"os"
	"testing"

	"github.com/ieee-sb/thesandbox/integration_tests/testutils"
)

// testEnv is the shared test environment managed by TestMain.
var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	env, err := testutils.NewTestEnvironment()
	if err != nil {
		log.Fatalf("failed to set up test environment: %v", err)
	}
	testEnv = env

	code := m.Run()
	env.Cleanup()
	os.Exit(code)
}
