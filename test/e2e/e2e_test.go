/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type composite struct {
	TotalExtractMass   float64 `json:"totalExtractMass"`
	ExtractComposition float64 `json:"extractComposition"`
}

type runReport struct {
	ID        string            `json:"id"`
	Stages    []json.RawMessage `json:"stages"`
	Composite composite         `json:"composite"`
}

func decodeReport(stdout string) runReport {
	var r runReport
	ExpectWithOffset(1, json.Unmarshal([]byte(stdout), &r)).To(Succeed(), "stdout: %s", stdout)
	return r
}

var _ = Describe("extraction run", func() {
	It("reproduces the reference single-stage result", func() {
		res := runBinary(nil, "run", "--data-dir", testdataDir, "-n", "1")
		Expect(res.exitCode).To(Equal(0), res.stderr)
		Expect(res.stdout).To(ContainSubstring("Composite extract: E = 1492.333 kg, y = 0.0107"))
	})

	DescribeTable("computes the composite extract",
		func(stages string, wantMass, wantY float64) {
			res := runBinary(nil, "run", "--data-dir", testdataDir, "-n", stages, "-o", "json")
			Expect(res.exitCode).To(Equal(0), res.stderr)
			r := decodeReport(res.stdout)
			Expect(r.Composite.TotalExtractMass).To(BeNumerically("~", wantMass, 1e-6))
			Expect(r.Composite.ExtractComposition).To(BeNumerically("~", wantY, 1e-8))
		},
		Entry("two stages", "2", 2992.6722866042, 0.009299673458837568),
		Entry("four stages", "4", 5989.214927650707, 0.007343146251827787),
	)

	It("returns an empty result for zero stages", func() {
		res := runBinary(nil, "run", "--data-dir", testdataDir, "-n", "0", "-o", "json")
		Expect(res.exitCode).To(Equal(0), res.stderr)
		r := decodeReport(res.stdout)
		Expect(r.Stages).To(BeEmpty())
		Expect(r.Composite.TotalExtractMass).To(BeZero())
	})

	It("reads layered configuration from a file and the environment", func() {
		configFile := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(configFile, []byte("stages: 1\noutput:\n  format: json\n"), 0o644)).To(Succeed())

		res := runBinary([]string{"LLX_STAGES=2"}, "run", "--config", configFile, "--data-dir", testdataDir)
		Expect(res.exitCode).To(Equal(0), res.stderr)
		r := decodeReport(res.stdout)
		Expect(r.Stages).To(HaveLen(2))
	})

	It("exits with code 2 on configuration errors", func() {
		res := runBinary(nil, "run", "--data-dir", GinkgoT().TempDir())
		Expect(res.exitCode).To(Equal(2))
		Expect(res.stderr).To(ContainSubstring("Error:"))

		res = runBinary(nil, "run", "--data-dir", testdataDir, "--solvent-mass", "-5")
		Expect(res.exitCode).To(Equal(2))
	})

	It("exits with code 3 when the tie-lines collapse", func() {
		dir := GinkgoT().TempDir()
		table, err := os.ReadFile(filepath.Join(testdataDir, "fase_oleica.txt"))
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(dir, "fase_oleica.txt"), table, 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "fase_propano.txt"), table, 0o644)).To(Succeed())

		res := runBinary(nil, "run", "--data-dir", dir, "-n", "1")
		Expect(res.exitCode).To(Equal(3), res.stderr)
	})
})

var _ = Describe("extraction history", func() {
	It("persists runs and lists them", func() {
		historyFile := filepath.Join(GinkgoT().TempDir(), "history.db")

		res := runBinary(nil, "run", "--data-dir", testdataDir, "-n", "2", "-o", "json", "--history", "--history-file", historyFile)
		Expect(res.exitCode).To(Equal(0), res.stderr)
		r := decodeReport(res.stdout)

		res = runBinary(nil, "history", "list", "--history-file", historyFile, "-o", "json")
		Expect(res.exitCode).To(Equal(0), res.stderr)
		var records []struct {
			ID      string `json:"id"`
			Outcome string `json:"outcome"`
		}
		Expect(json.Unmarshal([]byte(res.stdout), &records)).To(Succeed())
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).To(Equal(r.ID))
		Expect(records[0].Outcome).To(Equal("succeeded"))
	})
})

var _ = Describe("extraction sweep", func() {
	It("solves every grid point", func() {
		res := runBinary(nil, "sweep", "--data-dir", testdataDir, "--stages-list", "1,2,4", "-o", "json")
		Expect(res.exitCode).To(Equal(0), res.stderr)
		var rows []struct {
			Stages    int        `json:"stages"`
			Composite *composite `json:"composite"`
		}
		Expect(json.Unmarshal([]byte(res.stdout), &rows)).To(Succeed())
		Expect(rows).To(HaveLen(3))
		Expect(rows[2].Stages).To(Equal(4))
		Expect(rows[2].Composite).NotTo(BeNil())
		Expect(rows[2].Composite.TotalExtractMass).To(BeNumerically("~", 5989.214927650707, 1e-6))
	})
})
