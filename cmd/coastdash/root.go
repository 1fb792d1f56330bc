package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/dashboard"
	"github.com/spencer-p/coastdash/pkg/location"
)

// settings are the dashboard inputs read from flags, environment and config.
type settings struct {
	loc      location.Coordinate
	warning  string
	schedule coastal.Schedule
}

func (s settings) inputs(now time.Time) dashboard.Inputs {
	in := dashboard.Defaults(now, s.loc, s.warning)
	in.Schedule = s.schedule
	return in
}

// newRootCmd builds the command tree around its own viper instance.
func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "coastdash",
		Short: "Tide, swim times and beaches for the coast near you",
		Long: `Shows an approximate tide for the current hour, the best times to swim
today, and nearby beaches. Without a subcommand it runs a live dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			p := tea.NewProgram(initialModel(s, time.Now), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.coastdash.yaml)")
	flags.String("lat", "", "latitude of your location")
	flags.String("lng", "", "longitude of your location")
	flags.String("schedule", "", `today's tides, e.g. "02:15 L 1.2, 08:30 H 5.8"`)
	for _, name := range []string{"lat", "lng", "schedule"} {
		cobra.CheckErr(v.BindPFlag(name, flags.Lookup(name)))
	}

	rootCmd.AddCommand(
		newTidesCmd(v),
		newSwimCmd(),
		newBeachesCmd(),
	)
	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		// Search config in home directory with name ".coastdash" (without extension).
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".coastdash")
	}

	v.SetEnvPrefix("coastdash")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// loadSettings resolves the location and schedule. Without a configured
// location the default is used with a warning.
func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{schedule: coastal.DefaultSchedule()}

	lat, lng := v.GetString("lat"), v.GetString("lng")
	if lat != "" || lng != "" {
		c, err := location.Parse(lat, lng)
		if err != nil {
			return s, err
		}
		s.loc, s.warning = location.Resolve(&c, nil)
	} else {
		s.loc, s.warning = location.Resolve(nil, nil)
	}

	if table := v.GetString("schedule"); table != "" {
		schedule, err := coastal.ParseSchedule(table)
		if err != nil {
			return s, err
		}
		s.schedule = schedule
	}
	return s, nil
}
