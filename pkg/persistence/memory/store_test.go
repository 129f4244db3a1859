package memory

import (
	"testing"

	"github.com/xray-reporter/kube-xray-reporter/test/integration/persistence"
)

func TestStore(t *testing.T) {
	persistence.TestStoreInterface(t, NewStore(), nil)
}
