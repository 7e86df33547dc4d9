package macros

// Defaults returns the built-in dot-phrase set shipped with the service.
// Deployments extend it with rows from the macro table via LoadTable.
func Defaults() *Table {
	return NewTable(
		Macro{
			Trigger:  "heartfailure",
			Category: "cardiology",
			Template: "Acute on chronic systolic heart failure, EF ***%.\n" +
				"- Continue guideline-directed medical therapy\n" +
				"- Daily weights, strict I/O, 2L fluid restriction\n" +
				"- IV diuresis with furosemide *** mg, reassess in AM\n" +
				"- Low sodium diet (<2g/day)",
		},
		Macro{
			Trigger:  "chestpain",
			Category: "cardiology",
			Template: "Chest pain, likely ***.\n" +
				"- Serial troponins q6h x2\n" +
				"- EKG now and with recurrent pain\n" +
				"- ASA 81 mg daily, hold anticoagulation pending workup",
		},
		Macro{
			Trigger:  "copd",
			Category: "pulmonary",
			Template: "COPD exacerbation, *** trigger.\n" +
				"- Duoneb q4h scheduled, q2h PRN\n" +
				"- Prednisone 40 mg daily x5 days\n" +
				"- Azithromycin 500 mg daily x3 days\n" +
				"- Titrate O2 to SpO2 88-92%",
		},
		Macro{
			Trigger:  "sepsis",
			Category: "critical care",
			Template: "Sepsis secondary to ***.\n" +
				"- Blood cultures x2, lactate now and q6h until clearing\n" +
				"- Broad-spectrum antibiotics: ***\n" +
				"- 30 mL/kg crystalloid bolus, reassess volume status\n" +
				"- Trend WBC, procalcitonin",
		},
		Macro{
			Trigger:  "dmfoot",
			Category: "endocrine",
			Template: "Diabetic foot ulcer, *** stage.\n" +
				"- Wound care consult\n" +
				"- Podiatry evaluation\n" +
				"- MRI foot to rule out osteomyelitis\n" +
				"- Glycemic control with basal-bolus insulin",
		},
		Macro{
			Trigger:  "gibleed",
			Category: "gastroenterology",
			Template: "GI bleed, suspected *** source.\n" +
				"- NPO, two large-bore IVs\n" +
				"- Type and screen, transfuse for Hgb < 7\n" +
				"- IV PPI twice daily\n" +
				"- GI consult for endoscopy",
		},
		Macro{
			Trigger:  "aki",
			Category: "nephrology",
			Template: "Acute kidney injury, baseline creatinine ***.\n" +
				"- Hold nephrotoxins and renally dose medications\n" +
				"- Urine lytes, renal ultrasound if no improvement\n" +
				"- Gentle IV fluids, monitor urine output",
		},
		Macro{
			Trigger:  "dischargehome",
			Category: "disposition",
			Template: "Discharge home today.\n" +
				"- Follow up with PCP within *** days\n" +
				"- Medication reconciliation completed\n" +
				"- Return precautions discussed and verbalized",
		},
	)
}
