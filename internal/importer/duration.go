package importer

import "strings"

// ParseISODuration переводит ISO-8601 строку длительности YouTube
// (например "PT7M32S" или "PT1H") в целые секунды: hours*3600 + minutes*60 + seconds.
// Некорректные строки дают 0.
func ParseISODuration(s string) int {
	i := strings.Index(s, "T")
	if !strings.HasPrefix(s, "P") || i < 0 {
		return 0
	}
	total := 0
	num := 0
	for _, r := range s[i+1:] {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'H':
			total += num * 3600
			num = 0
		case r == 'M':
			total += num * 60
			num = 0
		case r == 'S':
			total += num
			num = 0
		default:
			return 0
		}
	}
	return total
}
