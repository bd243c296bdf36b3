package config

const (
	constConfigDirName  = "ad-setup"
	constStateDirName   = ".ad-setup"
	constConfigFileName = "config.yaml"
	constCredsFileName  = "credentials.yaml"
	constStatusFileName = "status.json"
	constHistoryDBName  = "history.db"
	constLogFileName    = "ad-setup.log"
	constErrLogFileName = "ad-setup-error.log"
)
