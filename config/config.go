/*
RSP machine configuration: a small TOML document read once at startup
and turned into core.Option values, replacing the teacher's hand-rolled
line-oriented parser with the format two other repos in this corpus
standardize on for emulator config.

Copyright (c) 2024, Richard Cornwell
Copyright (c) 2026

Permission is hereby granted, free of charge, to any person obtaining a
copy of this software and associated documentation files (the "Software"),
to deal in the Software without restriction, including without limitation
the rights to use, copy, modify, merge, publish, distribute, sublicense,
and/or sell copies of the Software, and to permit persons to whom the
Software is furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
DEALINGS IN THE SOFTWARE.
*/
package config

import (
	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of an RSP configuration file. An absent
// key decodes to the field's zero value, the same as an explicit false
// or empty string. Halted's zero value (false) starts the machine
// running, unlike the machine's halted power-on state.
type Config struct {
	Halted bool   `toml:"halted"`
	Log    string `toml:"log"`
	Debug  bool   `toml:"debug"`
}

// Load reads and decodes a TOML configuration file. An unrecognized key
// is an error: a typo'd key silently doing nothing is worse than a
// config file that refuses to load.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, &UnknownKeyError{Keys: undecoded}
	}
	return cfg, nil
}

// UnknownKeyError reports TOML keys present in a configuration file that
// Config does not define.
type UnknownKeyError struct {
	Keys []toml.Key
}

func (e *UnknownKeyError) Error() string {
	msg := "config: unknown key"
	if len(e.Keys) != 1 {
		msg += "s"
	}
	msg += ":"
	for i, k := range e.Keys {
		if i > 0 {
			msg += ","
		}
		msg += " " + k.String()
	}
	return msg
}
