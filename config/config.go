package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	JWT struct {
		AccessSecret     string `mapstructure:"access_secret"`
		RefreshSecret    string `mapstructure:"refresh_secret"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLHours  int    `mapstructure:"refresh_ttl_hours"`
	} `mapstructure:"jwt"`
	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`
	Google struct {
		ClientID string `mapstructure:"client_id"`
	} `mapstructure:"google"`
	Reaper struct {
		IntervalMinutes int `mapstructure:"interval_minutes"`
		GraceMinutes    int `mapstructure:"grace_minutes"`
	} `mapstructure:"reaper"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
