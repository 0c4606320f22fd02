package constants

// Типы оборудования, для которых есть шаблон отчёта.
const (
	EquipmentACB               = "acb"
	EquipmentVCB               = "vcb"
	EquipmentMCCB              = "mccb"
	EquipmentLTPanel           = "lt_panel"
	EquipmentHTPanel           = "ht_panel"
	EquipmentTransformer       = "transformer"
	EquipmentEnergyMeter       = "energy_meter"
	EquipmentBattery           = "battery"
	EquipmentUPS               = "ups"
	EquipmentProtectionRelay   = "protection_relay"
	EquipmentEarthPit          = "earth_pit"
	EquipmentAPFCPanel         = "apfc_panel"
	EquipmentDGSet             = "dg_set"
	EquipmentBusDuct           = "bus_duct"
	EquipmentPowerCable        = "power_cable"
	EquipmentLightningArrester = "lightning_arrester"
	EquipmentMotor             = "motor"
)

var EquipmentTypes = []string{
	EquipmentACB,
	EquipmentVCB,
	EquipmentMCCB,
	EquipmentLTPanel,
	EquipmentHTPanel,
	EquipmentTransformer,
	EquipmentEnergyMeter,
	EquipmentBattery,
	EquipmentUPS,
	EquipmentProtectionRelay,
	EquipmentEarthPit,
	EquipmentAPFCPanel,
	EquipmentDGSet,
	EquipmentBusDuct,
	EquipmentPowerCable,
	EquipmentLightningArrester,
	EquipmentMotor,
}

// Статусы пункта чек-листа
const (
	StatusYes = "yes"
	StatusNo  = "no"
	StatusNA  = "na"
)

var ChecklistStatuses = map[string]bool{
	StatusYes: true,
	StatusNo:  true,
	StatusNA:  true,
}

func IsEquipmentType(t string) bool {
	for _, e := range EquipmentTypes {
		if e == t {
			return true
		}
	}
	return false
}
