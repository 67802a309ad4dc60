package util

import "strings"

func RemoveDuplicateStrings(strings []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range strings {
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}

func NormaliseCrs(crs string) string {
	return strings.ToUpper(strings.TrimSpace(crs))
}

func EnvironmentFlagEnabled(value string, defaultValue bool) bool {
	switch strings.ToUpper(value) {
	case "":
		return defaultValue
	case "YES", "TRUE", "1":
		return true
	default:
		return false
	}
}
