package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var Storage string
var Dbname string
var FontPath string
var MainConfig Config

type Config struct {
	XMLName    xml.Name `xml:"config"`
	MainRouter string   `xml:"MainRouter"`
	Storage    string   `xml:"storage"`
	Dbname     string   `xml:"dbname"`
	FontPath   string   `xml:"font"`
}

func init() {
	// 缺省值，config.xml存在时覆盖
	MainConfig = Config{
		MainRouter: "0.0.0.0:8436",
		Storage:    "./Data",
		Dbname:     "panelforge.db",
		FontPath:   "./Fonts/simhei.ttf",
	}

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
	} else {
		defer xmlFile.Close()
		xmlDecoder := xml.NewDecoder(xmlFile)
		err = xmlDecoder.Decode(&MainConfig)
		if err != nil {
			fmt.Println("Error  decoding  XML:", err)
		}
	}

	MainRouter = MainConfig.MainRouter
	Storage = MainConfig.Storage
	Dbname = MainConfig.Dbname
	FontPath = MainConfig.FontPath
}
