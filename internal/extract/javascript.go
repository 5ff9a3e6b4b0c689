package extract

import "regexp"

// JS/TS-family patterns: ES imports, bare side-effect imports, CommonJS
// require calls and dynamic import() calls.
var javascriptRes = []*regexp.Regexp{
	regexp.MustCompile(`import\s+[^'"]*?\s+from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`export\s+[^'"]*?\s+from\s+['"]([^'"]+)['"]`),
}

type javascriptStrategy struct{}

func (javascriptStrategy) Extract(content string) []string {
	var tokens []string
	for _, re := range javascriptRes {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			tokens = append(tokens, m[1])
		}
	}
	return tokens
}
