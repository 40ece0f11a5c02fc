package jdk

import "strings"

// vendorShortNames maps slugs of release-file implementors to the names people type.
var vendorShortNames = map[string]string{
	"eclipse-adoptium":   "temurin",
	"adoptium":           "temurin",
	"amazon-com-inc":     "corretto",
	"azul-systems-inc":   "zulu",
	"oracle-corporation": "oracle",
	"graalvm-community":  "graalvm",
	"bellsoft":           "liberica",
	"sap-se":             "sapmachine",
	"microsoft":          "microsoft",
	"jetbrains-s-r-o":    "jbr",
}

// sdkmanVendors maps SDKMAN identifier suffixes ("21.0.2-tem") to vendor names.
var sdkmanVendors = map[string]string{
	"tem":        "Eclipse Adoptium",
	"amzn":       "Amazon.com Inc.",
	"zulu":       "Azul Systems, Inc.",
	"oracle":     "Oracle Corporation",
	"graalce":    "GraalVM Community",
	"graal":      "Oracle Corporation",
	"librca":     "BellSoft",
	"sapmchn":    "SAP SE",
	"ms":         "Microsoft",
	"jbr":        "JetBrains s.r.o.",
	"open":       "Oracle Corporation",
	"sem":        "IBM Corporation",
	"kona":       "Tencent",
	"dragonwell": "Alibaba",
}

// VendorAliases returns the lowercase names a user may use to refer to vendor: its slug
// and, for well-known distributions, the short product name.
func VendorAliases(vendor string) []string {
	slug := Slug(vendor)
	if slug == "" {
		return nil
	}
	aliases := []string{slug}
	if short, ok := vendorShortNames[slug]; ok && short != slug {
		aliases = append(aliases, short)
	}
	return aliases
}

// ParseSdkmanIdentifier splits an SDKMAN candidate directory name such as "21.0.2-tem"
// into version and vendor. Unknown suffixes keep the suffix as the vendor.
func ParseSdkmanIdentifier(name string) (version string, vendor string) {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 {
		return name, ""
	}
	version, suffix := name[:idx], name[idx+1:]
	if known, ok := sdkmanVendors[suffix]; ok {
		return version, known
	}
	return version, suffix
}
