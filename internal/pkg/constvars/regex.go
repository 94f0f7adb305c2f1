package constvars

const (
	RegexDateYYYYMMDD = `^\d{4}-\d{2}-\d{2}$`
	RegexTimeHHMM     = `^([01]\d|2[0-3]):([0-5]\d)$`
)
