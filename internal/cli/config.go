package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("driftpaper")
		viper.SetConfigType("toml")
		if viper.GetString("config") != "" {
			viper.SetConfigFile(viper.GetString("config"))
		} else {
			viper.AddConfigPath("$HOME/.config/driftpaper")
			viper.AddConfigPath("/etc/xdg/driftpaper")
		}
	}

	viper.SetDefault("wallpapers", "~/Pictures/wallpapers")
	viper.SetDefault("shuffle", true)
	viper.SetDefault("mode", "fill")
	viper.SetDefault("fade_speed", 1.0)
	viper.SetDefault("delay", 300)
	viper.SetDefault("framerate_limit", 60)
	viper.SetDefault("debug", false)

	viper.AutomaticEnv() // read environment variables that match

	err := viper.ReadInConfig()
	cobra.CheckErr(err)
}
