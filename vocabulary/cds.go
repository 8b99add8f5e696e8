package vocabulary

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func defaultCdsVocabulary() *CdsVocabulary {
	return &CdsVocabulary{
		Alias:     "CDS",
		Namespace: "com.sap.cds.vocabulary",
		NameMap: map[string]string{
			"title":            "CDS.Title",
			"description":      "CDS.Description",
			"readonly":         "CDS.Readonly",
			"insertonly":       "CDS.Insertonly",
			"mandatory":        "CDS.Mandatory",
			"assert.range":     "CDS.AssertRange",
			"assert.format":    "CDS.AssertFormat",
			"assert.unique":    "CDS.AssertUnique",
			"assert.integrity": "CDS.AssertIntegrity",
			"cds.autoexpose":   "CDS.CdsAutoexpose",
		},
		GroupNames: map[string]bool{
			"assert": true,
			"cds":    true,
		},
	}
}

func capitalizeSegments(segments []string) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	for _, segment := range segments {
		b.WriteString(caser.String(segment))
	}

	return b.String()
}
