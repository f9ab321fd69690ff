package config

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/TIANLI0/StatScan/barscan"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var colorType = reflect.TypeOf(barscan.Color{})

// ColorHookFunc 允许颜色写成 "#rrggbb" 或 [r, g, b]
func ColorHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != colorType {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			return barscan.ParseColor(data.(string))
		case reflect.Slice, reflect.Array:
			items := reflect.ValueOf(data)
			if items.Len() != 3 {
				return nil, fmt.Errorf("color needs 3 components, got %d", items.Len())
			}
			var rgb [3]uint8
			for i := range rgb {
				v, err := channel(items.Index(i).Interface())
				if err != nil {
					return nil, err
				}
				rgb[i] = v
			}
			return barscan.RGB(rgb[0], rgb[1], rgb[2]), nil
		}
		return data, nil
	}
}

func channel(v interface{}) (uint8, error) {
	var n float64
	switch x := v.(type) {
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint64:
		n = float64(x)
	case float64:
		n = x
	default:
		return 0, fmt.Errorf("invalid color component %v", v)
	}
	if n < 0 || n > 255 || n != float64(int(n)) {
		return 0, fmt.Errorf("color component %v outside 0..255", v)
	}
	return uint8(n), nil
}

// decodeHook viper 默认的两个 hook 加上颜色解析
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		ColorHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// loadProfiles 每个 profiles.<name> 都以 barscan.DefaultProfile() 为基础覆盖
func loadProfiles(v *viper.Viper) (map[string]*barscan.Profile, error) {
	profiles := map[string]*barscan.Profile{}

	for name := range v.GetStringMap("profiles") {
		key := "profiles." + name
		p := barscan.DefaultProfile()
		p.Name = name

		// 切片按下标合并，显式配置时整体替换
		section := v.GetStringMap(key)
		if _, ok := section["bars"]; ok {
			p.Bars = nil
		}
		if _, ok := section["background_colors"]; ok {
			p.BackgroundColors = nil
		}

		if err := v.UnmarshalKey(key, p, decodeHook()); err != nil {
			return nil, fmt.Errorf("failed to decode profile %q: %w", name, err)
		}
		p.Name = name
		profiles[name] = p
	}

	if _, ok := profiles["default"]; !ok {
		profiles["default"] = barscan.DefaultProfile()
	}

	for _, name := range ProfileNames(profiles) {
		if err := profiles[name].Validate(); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// ProfileNames 排序后的 profile 名称
func ProfileNames(profiles map[string]*barscan.Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
