package domain

import (
	"testing"

	"estatecore/testutil"
)

// TestDomainImportBoundaries keeps the record and rule types free of store,
// driver and service packages.
func TestDomainImportBoundaries(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InternalImportForbidden, testutil.StorageImportForbidden),
		"domain must not depend on internal packages or storage drivers")
}
