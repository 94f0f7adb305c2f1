package config

type (
	InternalConfig struct {
		App App
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Address                    string
		Timezone                   string
		EndpointPrefix             string
		MaxRequests                int
		ShutdownTimeout            int
		MaxTimeRequestsPerSeconds  int
		RequestBodyLimitInMegabyte int
		AvailabilityHorizonDays    int
		SlotRetentionDays          int
		SlotWorkerCronSpec         string
		LockTTLSeconds             int
	}
)
