package api_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/gearguard/api"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should load and validate", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Paths.Find("/requests/{id}/stage")).NotTo(BeNil())
		Expect(doc.Paths.Find("/reports/export")).NotTo(BeNil())
	})
})
