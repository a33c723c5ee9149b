package config

const (
	defaultBaseURL           = "http://localhost:4502"
	defaultTimeoutSeconds    = 30
	defaultRootPath          = "/content"
	defaultPrivilege         = "rep:write"
	defaultComponentRules    = "/apps/aem-modernize/job/component.rules.json"
	defaultPolicyRules       = "/apps/aem-modernize/job/policy.rules.json"
	defaultStructureRules    = "/apps/aem-modernize/job/structure.rules.json"
	defaultListChildren      = "/apps/aem-modernize/content/job/create.listchildren.json"
	defaultListComponents    = "/apps/aem-modernize/content/job/create.listcomponents.json"
	defaultListDesigns       = "/apps/aem-modernize/content/job/create.listdesigns.json"
	defaultScheduleJob       = "/apps/aem-modernize/content/job/create.json"
	defaultPageSize          = 30
	defaultMaxConcurrency    = 8
	defaultBucketSize        = 500
	defaultLogDir            = "~/.local/share/modernize/logs"
	defaultJournalPath       = "~/.local/share/modernize/journal.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	passwordEnvVar           = "MODERNIZE_PASSWORD"
	usernameEnvVar           = "MODERNIZE_USERNAME"
	defaultRepositoryAccount = "admin"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Repository: Repository{
			BaseURL:        defaultBaseURL,
			Username:       defaultRepositoryAccount,
			TimeoutSeconds: defaultTimeoutSeconds,
			RootPath:       defaultRootPath,
			Privilege:      defaultPrivilege,
		},
		Endpoints: Endpoints{
			ComponentRules: defaultComponentRules,
			PolicyRules:    defaultPolicyRules,
			StructureRules: defaultStructureRules,
			ListChildren:   defaultListChildren,
			ListComponents: defaultListComponents,
			ListDesigns:    defaultListDesigns,
			ScheduleJob:    defaultScheduleJob,
		},
		Wizard: Wizard{
			PageSize:       defaultPageSize,
			MaxConcurrency: defaultMaxConcurrency,
			BucketSize:     defaultBucketSize,
		},
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
